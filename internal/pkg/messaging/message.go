package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.uber.org/atomic"

	"github.com/tarkhineh/tarkhineh/internal/pkg/stacktrace"
)

// message adapts every driver's native message. ack and nack run at most once
// in total.
type message struct {
	body      []byte
	key       []byte
	headers   map[string]string
	id        string
	topic     string
	timestamp time.Time
	attempts  int

	ack  func(ctx context.Context) error
	nack func(ctx context.Context) error

	responded atomic.Bool
}

func (m *message) Body() []byte         { return m.body }
func (m *message) Key() []byte          { return m.key }
func (m *message) ID() string           { return m.id }
func (m *message) Topic() string        { return m.topic }
func (m *message) Timestamp() time.Time { return m.timestamp }
func (m *message) Attempts() int        { return m.attempts }

func (m *message) Header(key string) string {
	return m.headers[key]
}

func (m *message) Ack(ctx context.Context) error {
	return m.respond(ctx, m.ack)
}

func (m *message) Nack(ctx context.Context) error {
	return m.respond(ctx, m.nack)
}

func (m *message) respond(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.responded.Swap(true) || fn == nil {
		return nil
	}
	return fn(ctx)
}

// deliver runs handler with panic recovery and applies auto-ack.
func deliver(ctx context.Context, driver string, handler Handler, msg *message, autoAck bool) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}

		if !autoAck || msg.responded.Load() {
			return
		}
		var rerr error
		if err == nil {
			rerr = msg.Ack(context.WithoutCancel(ctx))
		} else {
			rerr = msg.Nack(context.WithoutCancel(ctx))
		}
		if rerr != nil {
			slog.WarnContext(ctx, "failed to respond to message", "driver", driver, "topic", msg.topic, "error", rerr)
		}
	}()

	return handler(ctx, msg)
}
