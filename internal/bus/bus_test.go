package bus

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/relscore/relscore/internal/config"
	"github.com/relscore/relscore/internal/pkg/logger"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup

	// Subscribe to topic
	err := bus.Subscribe(context.Background(), TopicEvaluationCompleted, func(ctx context.Context, event Event) error {
		received.Add(1)
		wg.Done()
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	// Publish events
	wg.Add(3)
	for i := 0; i < 3; i++ {
		err := bus.Publish(context.Background(), TopicEvaluationCompleted, Event{
			ID:   "test-" + string(rune('0'+i)),
			Type: TopicEvaluationCompleted,
		})
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	// Wait for handlers
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		// Success
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for events")
	}

	if got := received.Load(); got != 3 {
		t.Errorf("Received %d events, want 3", got)
	}
}

func TestMemoryBus_MultipleSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	var count1, count2 atomic.Int32
	var wg sync.WaitGroup

	bus.Subscribe(context.Background(), "test.topic", func(ctx context.Context, event Event) error {
		count1.Add(1)
		wg.Done()
		return nil
	})

	bus.Subscribe(context.Background(), "test.topic", func(ctx context.Context, event Event) error {
		count2.Add(1)
		wg.Done()
		return nil
	})

	// Publish one event - both subscribers should receive
	wg.Add(2)
	bus.Publish(context.Background(), "test.topic", Event{ID: "test", Type: "test"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timeout")
	}

	if count1.Load() != 1 || count2.Load() != 1 {
		t.Errorf("Expected both subscribers to receive 1 event, got %d and %d", count1.Load(), count2.Load())
	}
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	// Publishing to a topic with no subscribers should not error
	err := bus.Publish(context.Background(), "empty.topic", Event{ID: "test", Type: "test"})
	if err != nil {
		t.Errorf("Publish() to empty topic error = %v", err)
	}
}

func TestMemoryBus_ClosedBus(t *testing.T) {
	bus := NewMemoryBus()
	bus.Close()

	if err := bus.Publish(context.Background(), "topic", Event{ID: "test"}); err == nil {
		t.Error("Publish() on closed bus should fail")
	}
	if err := bus.Subscribe(context.Background(), "topic", func(ctx context.Context, e Event) error { return nil }); err == nil {
		t.Error("Subscribe() on closed bus should fail")
	}
}

func TestLoggedBus(t *testing.T) {
	inner := NewMemoryBus()
	bus := NewLoggedBus(inner, logger.New("error", "text"))
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup

	bus.Subscribe(context.Background(), "test.topic", func(ctx context.Context, event Event) error {
		received.Add(1)
		wg.Done()
		return nil
	})

	wg.Add(1)
	if err := bus.Publish(context.Background(), "test.topic", Event{ID: "e1", Type: "test"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timeout")
	}

	if received.Load() != 1 {
		t.Errorf("Received %d events, want 1", received.Load())
	}
}

func TestNewBus(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.BusConfig
		wantErr bool
	}{
		{
			name: "memory bus",
			cfg:  config.BusConfig{Type: "memory"},
		},
		{
			name: "empty defaults to memory",
			cfg:  config.BusConfig{},
		},
		{
			name:    "kafka without brokers",
			cfg:     config.BusConfig{Type: "kafka"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			cfg:     config.BusConfig{Type: "rabbitmq"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBus(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if b != nil {
				b.Close()
			}
		})
	}
}

func TestParseKafkaBrokers(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"localhost:9092", 1},
		{"b1:9092, b2:9092 ,b3:9092", 3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseKafkaBrokers(tt.input)
			if len(got) != tt.want {
				t.Errorf("ParseKafkaBrokers(%q) = %d brokers, want %d", tt.input, len(got), tt.want)
			}
			for _, b := range got {
				if b != "" && (b[0] == ' ' || b[len(b)-1] == ' ') {
					t.Errorf("broker %q not trimmed", b)
				}
			}
		})
	}
}
