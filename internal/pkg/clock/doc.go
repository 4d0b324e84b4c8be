// Package clock provides a tiny time abstraction.
//
// Business code depends on Clocker instead of calling time.Now directly, so OTP
// expiry and token lifetimes can be exercised with a Frozen clock in tests.
package clock
