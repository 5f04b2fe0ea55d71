package listener

import "errors"

var (
	// ErrConnectFailed is returned by Connect when the broker is unreachable
	// or rejects the credentials.
	ErrConnectFailed = errors.New("listener: connect failed")

	// ErrNotConnected is returned by Session operations before the
	// connected event has been dispatched, or after the session has ended.
	ErrNotConnected = errors.New("listener: not connected")

	// ErrDisconnected is returned by RunBlocking when the broker connection
	// is lost. A session never reconnects.
	ErrDisconnected = errors.New("listener: disconnected")
)
