package mqtt

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/config"
)

// testConfig returns an MQTT configuration for a local broker.
// Broker-backed tests skip unless one is listening on 127.0.0.1:1883.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "lightpicker-test",
			TLS:      false,
		},
		QoS:            1,
		ConnectTimeout: 2,
	}
}

// skipIfNoBroker skips the test if no local broker accepts connections.
func skipIfNoBroker(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION") != "" {
		return
	}
	cfg := testConfig()
	cfg.Broker.ClientID = "lightpicker-probe"
	client := New(cfg)
	if err := client.Connect(); err != nil {
		t.Skip("MQTT broker not available, skipping broker test")
	}
	client.Close()
}

func connectTest(t *testing.T, clientID string) *Client {
	t.Helper()
	skipIfNoBroker(t)

	cfg := testConfig()
	cfg.Broker.ClientID = clientID
	client := New(cfg)
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect(t *testing.T) {
	client := connectTest(t, "lightpicker-test-connect")

	if !client.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}
}

func TestConnectInvalidBroker(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 19999

	err := New(cfg).Connect()
	if err == nil {
		t.Fatal("Connect() expected error for invalid broker")
	}

	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestOnConnectCallbackFiresOnce(t *testing.T) {
	skipIfNoBroker(t)

	cfg := testConfig()
	cfg.Broker.ClientID = "lightpicker-test-onconnect"
	client := New(cfg)

	called := make(chan struct{}, 2)
	client.SetOnConnect(func() { called <- struct{}{} })

	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("OnConnect callback not invoked")
	}

	select {
	case <-called:
		t.Error("OnConnect callback invoked twice")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClose(t *testing.T) {
	skipIfNoBroker(t)

	cfg := testConfig()
	cfg.Broker.ClientID = "lightpicker-test-close"
	client := New(cfg)
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	disconnected := make(chan struct{}, 1)
	client.SetOnDisconnect(func(error) { disconnected <- struct{}{} })

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if client.IsConnected() {
		t.Error("IsConnected() = true after Close(), want false")
	}

	select {
	case <-disconnected:
		t.Error("graceful Close() fired the disconnect callback")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := New(testConfig())

	if client.IsConnected() {
		t.Error("IsConnected() should be false before Connect()")
	}
}

// =============================================================================
// Subscribe / Publish Tests
// =============================================================================

func TestSubscribe(t *testing.T) {
	client := connectTest(t, "lightpicker-test-subscribe")

	topic := Topics{Username: "test"}.Feed("subscribe")
	err := client.Subscribe(topic, 1, func(string, []byte) error { return nil })
	if err != nil {
		t.Errorf("Subscribe() error = %v", err)
	}
}

func TestSubscribeValidation(t *testing.T) {
	client := New(testConfig())
	noop := func(string, []byte) error { return nil }

	tests := []struct {
		name    string
		topic   string
		qos     byte
		handler MessageHandler
		wantErr error
	}{
		{name: "empty topic", topic: "", qos: 0, handler: noop, wantErr: ErrInvalidTopic},
		{name: "invalid qos", topic: "a/feeds/b", qos: 3, handler: noop, wantErr: ErrInvalidQoS},
		{name: "nil handler", topic: "a/feeds/b", qos: 0, handler: nil, wantErr: ErrSubscribeFailed},
		{name: "not connected", topic: "a/feeds/b", qos: 0, handler: noop, wantErr: ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Subscribe(tt.topic, tt.qos, tt.handler)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Subscribe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublishValidation(t *testing.T) {
	client := New(testConfig())

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{name: "empty topic", topic: "", qos: 0, wantErr: ErrInvalidTopic},
		{name: "invalid qos", topic: "a/feeds/b/get", qos: 3, wantErr: ErrInvalidQoS},
		{name: "oversized payload", topic: "a/feeds/b", payload: make([]byte, maxPayloadSize+1), wantErr: ErrPublishFailed},
		{name: "not connected", topic: "a/feeds/b/get", qos: 0, wantErr: ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublishSubscribeRoundtrip(t *testing.T) {
	pubClient := connectTest(t, "lightpicker-test-pub")
	subClient := connectTest(t, "lightpicker-test-sub")

	topic := Topics{Username: "test"}.Feed("roundtrip")
	received := make(chan string, 1)

	err := subClient.Subscribe(topic, 1, func(_ string, payload []byte) error {
		received <- string(payload)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := pubClient.Publish(topic, []byte("42"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case payload := <-received:
		if payload != "42" {
			t.Errorf("Received payload = %q, want %q", payload, "42")
		}
	case <-time.After(5 * time.Second):
		t.Error("Timeout waiting for message")
	}
}

func TestHandlerPanicRecovered(t *testing.T) {
	pubClient := connectTest(t, "lightpicker-test-panic-pub")
	subClient := connectTest(t, "lightpicker-test-panic-sub")

	topic := Topics{Username: "test"}.Feed("panic")
	calls := make(chan struct{}, 2)

	err := subClient.Subscribe(topic, 1, func(string, []byte) error {
		calls <- struct{}{}
		panic("boom")
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := pubClient.Publish(topic, []byte("x"), 1, false); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("handler not called for message %d", i+1)
		}
	}
}
