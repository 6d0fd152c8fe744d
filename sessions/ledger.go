// Package sessions implements the session ledger: volatile, time-bounded
// state tracking which issued tokens are active, which have been revoked, and
// which token is current for each username. The ledger supplies the
// out-of-band revocation and single-active-session policy that a signed
// token's own claims cannot express.
package sessions

import "time"

// Ledger tracks three expiring facts per login event. Absent keys read as
// false/"" with a nil error; an error from any method indicates a store
// fault, which callers must treat as fail-closed.
//
// Implementations must be safe for concurrent use from independent requests.
type Ledger interface {
	// Activate atomically marks the token active and makes it the current
	// token for the username, both expiring after ttl. A concurrent reader
	// must never observe one half of the pair without the other.
	Activate(token, username string, ttl time.Duration) error

	// Revoke marks the token revoked for ttl and immediately clears its
	// active entry, so a logged-out token is inactive before its natural
	// expiry.
	Revoke(token string, ttl time.Duration) error

	IsRevoked(token string) (bool, error)
	IsActive(token string) (bool, error)

	// CurrentTokenFor returns the most recently activated token for the
	// username, or "" when none exists.
	CurrentTokenFor(username string) (string, error)
}
