// Package uid generates identifiers: UUIDv7 strings for correlation and token
// ids, snowflake numbers for events.
package uid

// NumberID generates unique, roughly time ordered int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
