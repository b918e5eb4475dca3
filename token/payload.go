package token

import (
	"time"

	"github.com/code19m/errx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Payload contains the payload data of the token.
type Payload struct {
	ID        uuid.UUID        `json:"jti"`
	Subject   string           `json:"sub"`
	IssuedAt  *jwt.NumericDate `json:"iat"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
	NotBefore *jwt.NumericDate `json:"nbf,omitempty"`
	Issuer    string           `json:"iss,omitempty"`
	Audience  []string         `json:"aud,omitempty"`

	CustomClaims map[string]any `json:"custom_claims,omitempty"`
}

// NewPayload creates a payload for sub expiring after duration.
func NewPayload(sub string, duration time.Duration) (*Payload, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	now := time.Now()
	return &Payload{
		ID:           tokenID,
		Subject:      sub,
		IssuedAt:     jwt.NewNumericDate(now),
		ExpiresAt:    jwt.NewNumericDate(now.Add(duration)),
		NotBefore:    jwt.NewNumericDate(now),
		Audience:     []string{},
		CustomClaims: make(map[string]any),
	}, nil
}

// WithCustomClaim adds a custom claim to the token payload.
func (payload *Payload) WithCustomClaim(key string, value any) *Payload {
	if payload.CustomClaims == nil {
		payload.CustomClaims = make(map[string]any)
	}
	payload.CustomClaims[key] = value
	return payload
}

// Valid checks the validity window.
func (payload *Payload) Valid() bool {
	now := time.Now()

	if payload.ExpiresAt != nil && now.After(payload.ExpiresAt.Time) {
		return false
	}
	if payload.NotBefore != nil && now.Before(payload.NotBefore.Time) {
		return false
	}
	return true
}

// The methods below implement jwt.Claims.

func (payload *Payload) GetExpirationTime() (*jwt.NumericDate, error) { return payload.ExpiresAt, nil }
func (payload *Payload) GetIssuedAt() (*jwt.NumericDate, error)       { return payload.IssuedAt, nil }
func (payload *Payload) GetNotBefore() (*jwt.NumericDate, error)      { return payload.NotBefore, nil }
func (payload *Payload) GetIssuer() (string, error)                   { return payload.Issuer, nil }
func (payload *Payload) GetSubject() (string, error)                  { return payload.Subject, nil }
func (payload *Payload) GetAudience() (jwt.ClaimStrings, error)       { return payload.Audience, nil }
