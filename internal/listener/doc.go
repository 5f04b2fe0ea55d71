// Package listener holds one Adafruit IO feed session and dispatches its
// lifecycle events to a Handler.
//
// A Listener dials the broker, and RunBlocking then delivers three kinds of
// event on the caller's goroutine, one at a time:
//
//   - connected: the session moves to StateConnected and Handler.OnConnect runs.
//     Subscriptions are only accepted from this point on.
//   - message: Handler.OnMessage runs with the feed key and payload.
//   - disconnected: the session moves to StateDisconnected for good,
//     Handler.OnDisconnect runs, and RunBlocking returns ErrDisconnected.
//
// There is no reconnect. Cancelling the context passed to RunBlocking closes
// the connection and returns nil.
//
// Usage:
//
//	l, err := listener.New(listener.Options{Dial: dial, Handler: handler, Logger: log})
//	if err != nil {
//	    return err
//	}
//	s, err := l.Connect(listener.Credentials{Username: user, Key: key})
//	if err != nil {
//	    return err
//	}
//	return l.RunBlocking(ctx, s)
package listener
