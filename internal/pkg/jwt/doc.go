// Package jwt signs and verifies the HS512 JSON Web Tokens used for sessions.
//
// Access and refresh tokens are two independent Symmetric instances with their
// own secret and lifetime; a token signed by one never verifies with the other.
// Context helpers carry verified claims through an HTTP request.
package jwt
