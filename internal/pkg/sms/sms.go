// Package sms delivers text messages to mobile numbers through a provider
// panel. Two drivers exist: "http" talks to a JSON panel API and "log" only
// writes the message to the application log, which is handy in development.
package sms

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DriverHTTP = "http"
	DriverLog  = "log"
)

var (
	ErrUnsupportedDriver = errors.New("sms: unsupported driver")
	ErrInvalidConfig     = errors.New("sms: invalid config")
	ErrRejected          = errors.New("sms: message rejected by provider")
)

// Sender sends text to phone.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

// Config configures NewFromDriver.
type Config struct {
	Driver     string
	URL        string
	APIKey     string
	From       string
	Timeout    time.Duration
	MaxRetries uint64
}

// NewFromDriver builds the Sender selected by cfg.Driver.
func NewFromDriver(cfg Config) (Sender, error) {
	switch cfg.Driver {
	case DriverHTTP:
		return NewHTTP(cfg)
	case DriverLog, "":
		return NewLog(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}
