package ws

import "encoding/json"

// EventsRoom is the room every host event stream joins.
const EventsRoom = "events"

// EventMessage is one host event on the wire. Args holds the event's JSON
// argument array verbatim, as a string.
type EventMessage struct {
	Event      string `json:"event"`
	Args       string `json:"args"`
	Background bool   `json:"background,omitempty"`
}

func EncodeEvent(name, argsJSON string, background bool) []byte {
	data, _ := json.Marshal(EventMessage{Event: name, Args: argsJSON, Background: background})
	return data
}
