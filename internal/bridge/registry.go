package bridge

import (
	"errors"
	"sync"
)

var (
	ErrNotRegistered     = errors.New("bridge: no HostBridge registered")
	ErrAlreadyRegistered = errors.New("bridge: HostBridge already registered")
)

var (
	mu         sync.RWMutex
	registered bool
)

// Register is called once from native (Swift/Kotlin) before any ad call.
// The host is owned by the Adapter built around it; Register only records
// that the process has one.
func Register(h HostBridge) error {
	if h == nil {
		return errors.New("bridge: nil HostBridge")
	}
	mu.Lock()
	defer mu.Unlock()
	if registered {
		return ErrAlreadyRegistered
	}
	registered = true
	return nil
}

// Registered reports whether a host was registered in this process.
func Registered() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registered
}

func reset() {
	mu.Lock()
	registered = false
	mu.Unlock()
}
