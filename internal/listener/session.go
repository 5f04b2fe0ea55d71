package listener

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/logging"
	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/mqtt"
)

// State is the lifecycle position of a Session.
type State int

const (
	// StateDisconnected is both the initial and the terminal state.
	StateDisconnected State = iota

	// StateConnected is entered when the connected event is dispatched.
	StateConnected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// eventBuffer bounds how many broker events may queue ahead of dispatch.
// Messages arriving while the queue is full are dropped so the paho router
// goroutine, which also reads PINGRESP, never blocks on a slow handler.
const eventBuffer = 16

type eventKind int

const (
	eventConnected eventKind = iota
	eventMessage
	eventDisconnected
)

type event struct {
	kind    eventKind
	topic   string
	payload []byte
	err     error
}

// Session is one broker connection and the context object passed to every
// Handler call. It is owned by the caller of RunBlocking.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Session struct {
	conn   Conn
	topics mqtt.Topics
	qos    byte
	log    *logging.Logger

	events  chan event
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64

	mu         sync.Mutex
	state      State
	ended      bool
	subscribed map[string]bool
}

func newSession(conn Conn, username string, qos byte, log *logging.Logger) *Session {
	return &Session{
		conn:       conn,
		topics:     mqtt.Topics{Username: username},
		qos:        qos,
		log:        log,
		events:     make(chan event, eventBuffer),
		done:       make(chan struct{}),
		subscribed: make(map[string]bool),
	}
}

// Username returns the account the session authenticated as.
func (s *Session) Username() string {
	return s.topics.Username
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe starts delivery of the named feed's messages.
//
// It returns ErrNotConnected until the connected event has been dispatched.
// Subscribing to a feed that is already subscribed is a no-op.
func (s *Session) Subscribe(feed string) error {
	s.mu.Lock()
	if s.state != StateConnected {
		s.mu.Unlock()
		return ErrNotConnected
	}
	if s.subscribed[feed] {
		s.mu.Unlock()
		return nil
	}
	s.subscribed[feed] = true
	s.mu.Unlock()

	if err := s.conn.Subscribe(s.topics.Feed(feed), s.qos, s.deliver); err != nil {
		s.mu.Lock()
		delete(s.subscribed, feed)
		s.mu.Unlock()
		return fmt.Errorf("subscribing to feed %q: %w", feed, err)
	}
	return nil
}

// FetchLatest asks the broker to resend the feed's current value.
// The value arrives as an ordinary message on a subscribed feed.
func (s *Session) FetchLatest(feed string) error {
	if s.State() != StateConnected {
		return ErrNotConnected
	}
	if err := s.conn.Publish(s.topics.FeedGet(feed), nil, s.qos, false); err != nil {
		return fmt.Errorf("requesting latest value of feed %q: %w", feed, err)
	}
	return nil
}

// deliver is the mqtt.MessageHandler registered for every subscription.
// It never blocks: a message that finds the queue full is dropped.
func (s *Session) deliver(topic string, payload []byte) error {
	select {
	case s.events <- event{kind: eventMessage, topic: topic, payload: payload}:
	case <-s.done:
	default:
		n := s.dropped.Add(1)
		s.log.Warn("event queue full, dropping message",
			"topic", topic,
			"dropped_total", n,
		)
	}
	return nil
}

// Dropped returns how many messages were discarded because the handler
// fell behind.
func (s *Session) Dropped() uint64 {
	return s.dropped.Load()
}

// send queues a lifecycle event for dispatch, waiting for room if needed.
// Events raised after the run has ended are dropped.
func (s *Session) send(ev event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// end moves the session to its terminal state and releases pending senders.
func (s *Session) end() {
	s.once.Do(func() {
		s.mu.Lock()
		s.state = StateDisconnected
		s.ended = true
		s.mu.Unlock()
		close(s.done)
	})
}

func (s *Session) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}
