package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrUnsupported is returned when the driver cannot honor a request
	// (for example delayed delivery).
	ErrUnsupported = errors.New("messaging: unsupported operation")
	// ErrDestinationRequired is returned for an empty topic, subject or subscription.
	ErrDestinationRequired = errors.New("messaging: destination is required")
	// ErrHandlerRequired is returned when Consume receives a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrClosed is returned after Close.
	ErrClosed = io.ErrClosedPipe
)

// Messaging publishes and consumes messages.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer blocks in Consume until ctx is done or the driver stops.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one message.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to publish. Headers travel as NATS and Kafka
// headers or Pub/Sub attributes; NSQ drops them.
type OutgoingMessage struct {
	Body        []byte
	Key         []byte
	Headers     map[string]string
	OrderingKey string
	Delay       time.Duration
}

// PublishResult carries what the broker reported back, when anything.
type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	Body() []byte
	Key() []byte
	Header(key string) string
	ID() string
	Topic() string
	Timestamp() time.Time
	Attempts() int

	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}
