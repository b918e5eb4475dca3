// Package token issues and verifies the HS256 bearer tokens that carry a
// caller's dataset access map.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/code19m/errx"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rise-and-shine/catalog/access"
)

const (
	CodeExpiredToken = "EXPIRED_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"

	// AccessMapClaim is the custom claim holding the access map.
	AccessMapClaim = "access_map"

	minSecretKeySize = 16
)

// JWTMaker signs and verifies tokens with a shared secret.
type JWTMaker struct {
	secretKey string
}

// NewJWTMaker creates a new JWTMaker.
func NewJWTMaker(secretKey string) (*JWTMaker, error) {
	if len(secretKey) < minSecretKeySize {
		return nil, errx.New(fmt.Sprintf("invalid key size: must be at least %d characters", minSecretKeySize))
	}
	return &JWTMaker{secretKey}, nil
}

// CreateToken signs a token for sub valid for duration.
func (maker *JWTMaker) CreateToken(
	sub string,
	duration time.Duration,
	customClaims map[string]any,
) (string, *Payload, error) {
	payload, err := NewPayload(sub, duration)
	if err != nil {
		return "", nil, errx.Wrap(err)
	}

	for key, value := range customClaims {
		payload = payload.WithCustomClaim(key, value)
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	token, err := jwtToken.SignedString([]byte(maker.secretKey))
	if err != nil {
		return "", nil, errx.Wrap(err)
	}

	return token, payload, nil
}

// CreateAccessToken signs a token carrying am under the access_map claim.
func (maker *JWTMaker) CreateAccessToken(sub string, duration time.Duration, am access.Map) (string, error) {
	token, _, err := maker.CreateToken(sub, duration, map[string]any{AccessMapClaim: am})
	if err != nil {
		return "", errx.Wrap(err)
	}
	return token, nil
}

// VerifyToken checks the signature and validity window of token.
func (maker *JWTMaker) VerifyToken(token string) (*Payload, error) {
	keyFunc := func(token *jwt.Token) (any, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, invalidToken("unexpected signing method")
		}
		return []byte(maker.secretKey), nil
	}

	jwtToken, err := jwt.ParseWithClaims(token, &Payload{}, keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errx.New(
				"token is expired",
				errx.WithCode(CodeExpiredToken),
				errx.WithType(errx.T_Authentication),
			)
		}
		return nil, errx.Wrap(err, errx.WithCode(CodeInvalidToken), errx.WithType(errx.T_Authentication))
	}

	payload, ok := jwtToken.Claims.(*Payload)
	if !ok || !payload.Valid() {
		return nil, invalidToken("token is invalid")
	}

	return payload, nil
}

// AccessMap verifies token and decodes its access map. A token without the
// claim grants no datasets.
func (maker *JWTMaker) AccessMap(token string) (access.Map, error) {
	payload, err := maker.VerifyToken(token)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	claim, ok := payload.CustomClaims[AccessMapClaim]
	if !ok {
		return access.Map{}, nil
	}

	am, err := access.FromClaim(claim)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return am, nil
}

func invalidToken(msg string) error {
	return errx.New(msg, errx.WithCode(CodeInvalidToken), errx.WithType(errx.T_Authentication))
}
