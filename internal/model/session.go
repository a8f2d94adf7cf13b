package model

// PlaceholderEmail is the email synthesized when a session is restored from
// a persisted token. The token carries no verifiable identity, so the
// restored session uses a fixed address.
const PlaceholderEmail = "user@example.com"

// User is the locally signed-in user. Token is an opaque marker that a
// session exists; it carries no cryptographic guarantee.
type User struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
