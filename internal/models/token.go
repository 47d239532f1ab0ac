package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a ledger entry for an issued refresh token.
// Entries with expired signatures may linger in the ledger: cryptographic
// expiry, not ledger cleanup, is the enforcement mechanism.
type RefreshToken struct {
	Token     string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued by AuthService on register and login
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
