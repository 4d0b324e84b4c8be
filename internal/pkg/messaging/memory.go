package messaging

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const (
	memoryBuffer      = 256
	memoryMaxAttempts = 5
)

type memoryEnvelope struct {
	out      OutgoingMessage
	id       string
	ts       time.Time
	attempts int
}

// Memory is an in-process broker. Every consumer group of a topic receives
// each message once; consumers sharing a group compete for messages.
// Messages published to a topic without consumers are dropped.
type Memory struct {
	mu     sync.Mutex
	queues map[string]map[string]chan memoryEnvelope
	closed bool
	done   chan struct{}
	seq    atomic.Uint64
}

func NewMemory() *Memory {
	return &Memory{
		queues: make(map[string]map[string]chan memoryEnvelope),
		done:   make(chan struct{}),
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return PublishResult{}, ErrClosed
	}
	targets := make([]chan memoryEnvelope, 0, len(m.queues[destination]))
	for _, q := range m.queues[destination] {
		targets = append(targets, q)
	}
	m.mu.Unlock()

	env := memoryEnvelope{
		out:      msg,
		id:       strconv.FormatUint(m.seq.Inc(), 10),
		ts:       time.Now(),
		attempts: 1,
	}

	for _, q := range targets {
		if msg.Delay > 0 {
			time.AfterFunc(msg.Delay, func() { _ = m.enqueue(context.Background(), q, env) })
			continue
		}
		if err := m.enqueue(ctx, q, env); err != nil {
			return PublishResult{}, err
		}
	}

	return PublishResult{MessageID: env.id, Topic: destination, Timestamp: env.ts}, nil
}

func (m *Memory) enqueue(ctx context.Context, q chan memoryEnvelope, env memoryEnvelope) error {
	select {
	case q <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return ErrClosed
	}
}

func (m *Memory) queue(topic, group string) (chan memoryEnvelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	groups, ok := m.queues[topic]
	if !ok {
		groups = make(map[string]chan memoryEnvelope)
		m.queues[topic] = groups
	}
	q, ok := groups[group]
	if !ok {
		q = make(chan memoryEnvelope, memoryBuffer)
		groups[group] = q
	}
	return q, nil
}

func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	group := co.group
	for _, g := range []string{co.channel, co.queueGroup, co.subscription} {
		if group == "" {
			group = g
		}
	}

	q, err := m.queue(source, group)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case env := <-q:
					_ = deliver(ctx, DriverMemory, handler, m.wrap(source, q, env), co.autoAck)
				}
			}
		})
	}
	wg.Wait()

	return ctx.Err()
}

func (m *Memory) wrap(topic string, q chan memoryEnvelope, env memoryEnvelope) *message {
	return &message{
		body:      env.out.Body,
		key:       env.out.Key,
		headers:   env.out.Headers,
		id:        env.id,
		topic:     topic,
		timestamp: env.ts,
		attempts:  env.attempts,
		ack:       func(context.Context) error { return nil },
		nack: func(context.Context) error {
			if env.attempts >= memoryMaxAttempts {
				slog.Warn("memory broker dropping message after max attempts", "topic", topic, "id", env.id)
				return nil
			}
			env.attempts++
			select {
			case q <- env:
			default:
				slog.Warn("memory broker queue full, dropping requeued message", "topic", topic, "id", env.id)
			}
			return nil
		},
	}
}
