package listener

import (
	"context"
	"fmt"

	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/logging"
	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/mqtt"
)

// Conn is the broker connection a Session drives. *mqtt.Client satisfies it.
//
// The callbacks are registered before Connect is called.
type Conn interface {
	SetOnConnect(callback func())
	SetOnDisconnect(callback func(err error))
	Connect() error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Close() error
}

var _ Conn = (*mqtt.Client)(nil)

// Credentials identify an Adafruit IO account. Key is sent as the MQTT
// password.
type Credentials struct {
	Username string
	Key      string
}

// DialFunc builds an unconnected Conn for the given credentials.
type DialFunc func(Credentials) Conn

// Handler receives session lifecycle events. Calls are never concurrent.
type Handler interface {
	// OnConnect runs once the broker has accepted the session. A returned
	// error ends the run.
	OnConnect(s *Session) error

	// OnDisconnect runs when the connection is lost. err may be nil.
	OnDisconnect(s *Session, err error)

	// OnMessage runs for each message on a subscribed feed. A returned error
	// is logged and the run continues.
	OnMessage(s *Session, feedID, payload string) error
}

// Listener connects to the broker and dispatches session events to a Handler.
type Listener struct {
	dial    DialFunc
	handler Handler
	qos     byte
	log     *logging.Logger
}

// Options holds configuration for creating a Listener.
type Options struct {
	// Dial builds the broker connection.
	Dial DialFunc

	// Handler receives session events.
	Handler Handler

	// QoS is used for subscriptions and value requests.
	QoS byte

	// Logger is optional. If nil, log output is discarded.
	Logger *logging.Logger
}

// New creates a Listener.
func New(opts Options) (*Listener, error) {
	if opts.Dial == nil {
		return nil, fmt.Errorf("dial function is required")
	}
	if opts.Handler == nil {
		return nil, fmt.Errorf("handler is required")
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &Listener{
		dial:    opts.Dial,
		handler: opts.Handler,
		qos:     opts.QoS,
		log:     log.With("component", "listener"),
	}, nil
}

// Connect opens a session for creds. It does not retry: any failure returns
// an error wrapping ErrConnectFailed.
func (l *Listener) Connect(creds Credentials) (*Session, error) {
	if creds.Username == "" || creds.Key == "" {
		return nil, fmt.Errorf("%w: username and key are required", ErrConnectFailed)
	}

	conn := l.dial(creds)
	s := newSession(conn, creds.Username, l.qos, l.log)

	conn.SetOnConnect(func() {
		s.send(event{kind: eventConnected})
	})
	conn.SetOnDisconnect(func(err error) {
		s.send(event{kind: eventDisconnected, err: err})
	})

	if err := conn.Connect(); err != nil {
		s.end()
		return nil, fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	return s, nil
}

// RunBlocking dispatches s's events until the connection ends.
//
// It returns nil when ctx is cancelled, an error wrapping ErrDisconnected
// when the broker connection is lost, or the error returned by
// Handler.OnConnect.
func (l *Listener) RunBlocking(ctx context.Context, s *Session) error {
	if s.isEnded() {
		return ErrDisconnected
	}

	for {
		select {
		case <-ctx.Done():
			s.end()
			if err := s.conn.Close(); err != nil {
				l.log.Warn("closing connection", "error", err)
			}
			l.log.Info("listener stopped")
			return nil

		case ev := <-s.events:
			switch ev.kind {
			case eventConnected:
				s.setState(StateConnected)
				if err := l.handler.OnConnect(s); err != nil {
					s.end()
					if cerr := s.conn.Close(); cerr != nil {
						l.log.Warn("closing connection", "error", cerr)
					}
					return err
				}

			case eventMessage:
				l.dispatchMessage(s, ev)

			case eventDisconnected:
				s.end()
				l.log.Error("connection lost", "error", ev.err)
				l.handler.OnDisconnect(s, ev.err)
				if ev.err != nil {
					return fmt.Errorf("%w: %w", ErrDisconnected, ev.err)
				}
				return ErrDisconnected
			}
		}
	}
}

// dispatchMessage runs OnMessage with panic recovery.
func (l *Listener) dispatchMessage(s *Session, ev event) {
	feedID, ok := mqtt.FeedKey(ev.topic)
	if !ok {
		l.log.Debug("message on non-feed topic", "topic", ev.topic)
		feedID = ev.topic
	}

	defer func() {
		if r := recover(); r != nil {
			l.log.Error("message handler panic recovered",
				"feed", feedID,
				"panic", r,
			)
		}
	}()

	if err := l.handler.OnMessage(s, feedID, string(ev.payload)); err != nil {
		l.log.Warn("message handler returned error",
			"feed", feedID,
			"error", err,
		)
	}
}
