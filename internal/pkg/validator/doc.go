// Package validator provides a small validation abstraction for request and
// dependency structs, backed by go-playground/validator v10 with translated
// messages in English or Persian.
package validator
