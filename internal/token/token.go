// Package token issues and verifies the signed timing token embedded in the
// contact form. The token records when the form was rendered; submissions
// arriving implausibly fast or long after issuance are treated as automated.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer creates and verifies timing tokens with a process-held HMAC secret.
type Issuer struct {
	secret []byte
	minAge time.Duration
	maxAge time.Duration
}

// NewIssuer returns an Issuer enforcing the given age window. A submission is
// only considered human-plausible when minAge <= now-issued <= maxAge.
func NewIssuer(secret string, minAge, maxAge time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		minAge: minAge,
		maxAge: maxAge,
	}
}

// Issue returns a signed token recording now as the issuance time.
func (i *Issuer) Issue(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(now),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Verify checks the token signature and issuance age. It fails closed: any
// malformed, tampered, or foreign-key token yields ok=false, never a panic.
// The age is returned for logging when verification succeeds.
func (i *Issuer) Verify(tokenString string, now time.Time) (age time.Duration, ok bool) {
	if tokenString == "" {
		return 0, false
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return 0, false
	}

	if claims.IssuedAt == nil {
		return 0, false
	}

	age = now.Sub(claims.IssuedAt.Time)
	if age < i.minAge || age > i.maxAge {
		return 0, false
	}
	return age, true
}
