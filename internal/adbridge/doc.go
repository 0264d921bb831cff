// Package adbridge forwards calls between a game-engine host and a native
// mobile ad SDK.
//
// The host issues commands (request, show, hide, destroy, refresh) against an
// [AdBridge] obtained from a [Registry], one instance per ad unit. The SDK
// answers asynchronously through listener interfaces; every callback is
// marshaled onto the host main thread, checked against the handle it refers
// to, and translated 1:1 into a named event that the [Emitter] hands to the
// host as a JSON array of strings.
//
// # Handle lifecycle
//
//	Unrequested -> Loading -> Ready | Failed
//	Ready -> Shown -> Dismissed
//	any state -> Unrequested (destroy)
//
// A banner is visible from the moment it is requested, so a successful load
// takes it straight to Shown unless HideBanner ran first. Ready means loaded
// but hidden.
//
// Destroying or replacing a handle retires its ID. Callbacks that arrive
// later for a retired ID are dropped, so a late load never resurrects a
// destroyed ad. SDKs that hand a retired ID out again get a handle that
// ignores every callback raised before its own Load.
//
// # Delivery
//
// The host sink is called from the main thread, never with a bridge lock
// held, so it may issue commands from inside the callback. Impressions go
// straight to a background sink when one is installed.
//
// # Errors
//
// Only malformed input is rejected synchronously, with [ErrInvalidArgument].
// Acting on an ad that is not loaded is logged as [ErrNotReady] and ignored.
// SDK failures are always delivered as events.
package adbridge
