package mqtt

import (
	"fmt"
	"sync"
)

// Publisher delivers schedule payloads to interested consumers.
type Publisher interface {
	// Publish marshals payload as JSON and delivers it on the given topic
	// below the configured prefix.
	Publish(topic string, payload any) error
	Close() error
}

// ScheduleTopic returns the per-battery schedule topic suffix.
func ScheduleTopic(battery int) string {
	return fmt.Sprintf("schedule/%d", battery)
}

// GridTopic is the topic suffix for horizon-wide grid flows.
const GridTopic = "schedule/grid"

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	mu       sync.Mutex
	Messages map[string]any
	Fail     bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Messages: make(map[string]any)}
}

// Publish records the payload or returns an error if configured to fail.
func (m *MockPublisher) Publish(topic string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Messages[topic] = payload
	return nil
}

// Close implements Publisher.
func (m *MockPublisher) Close() error { return nil }
