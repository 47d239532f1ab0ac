package tokencodec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultSigningMethod   = "HS256"
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Verification failure kinds
// Expired is recoverable by the caller via the re-authentication flow,
// Malformed (bad signature, wrong class, garbage) never is
var (
	ErrExpired   = errors.New("token is expired")
	ErrMalformed = errors.New("token is malformed or has invalid signature")
)

type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
}

// Codec signs and verifies the two bearer token classes.
// Access and refresh tokens use independent secrets, so a token of one class
// never verifies as the other
type Config struct {
	// Secrets to sign token payloads
	// Both required and must differ
	AccessSecret  string
	RefreshSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Codec struct {
	accessSecret  []byte
	refreshSecret []byte

	alg jwt.SigningMethod

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(cfg Config) (*Codec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("both token secrets must not be empty")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh token secrets must differ")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		alg:           jwt.GetSigningMethod(cfg.Alg),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}, nil
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess signs a short lived access token bound to the user id
func (c *Codec) IssueAccess(userID uuid.UUID) (value string, expiresAt time.Time, err error) {
	return c.issue(userID, c.accessSecret, c.accessTTL)
}

// IssueRefresh signs a long lived refresh token bound to the user id
func (c *Codec) IssueRefresh(userID uuid.UUID) (value string, expiresAt time.Time, err error) {
	return c.issue(userID, c.refreshSecret, c.refreshTTL)
}

func (c *Codec) issue(userID uuid.UUID, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		c.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID: userID,
		},
	)

	value, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return value, expiresAt, nil
}

// VerifyAccess parses and validates an access token and returns its subject
func (c *Codec) VerifyAccess(value string) (uuid.UUID, error) {
	return c.verify(value, c.accessSecret)
}

// VerifyRefresh parses and validates a refresh token and returns its subject
func (c *Codec) VerifyRefresh(value string) (uuid.UUID, error) {
	return c.verify(value, c.refreshSecret)
}

func (c *Codec) verify(value string, secret []byte) (uuid.UUID, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{c.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil:
		return claims.UserID, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, fmt.Errorf("token verification: %w", ErrExpired)
	default:
		return uuid.Nil, fmt.Errorf("token verification: %w", ErrMalformed)
	}
}
