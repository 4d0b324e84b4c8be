// Package hash provides helpers for hashing and verifying secrets.
//
// Only the digest is ever stored; a presented secret is checked by re-hashing
// it with the salt embedded in the stored digest. Refresh tokens are hashed
// this way before they reach the credential store.
package hash
