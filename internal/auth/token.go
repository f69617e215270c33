package auth // package auth creates and verifies the signed credentials used by the API

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

	"github.com/aroy/employee-dashboard/internal/model"
)

// Verification collapses every failure into one of two sentinel errors so
// that handlers never branch on claim contents: a token that is expired or
// carries a broken signature is rejected the same way no matter what it
// claims to be.
var (
	// ErrTokenExpired is returned for a well-formed token whose exp claim
	// lies in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned for everything else: bad signature,
	// wrong algorithm, garbage input, missing claims.
	ErrTokenMalformed = errors.New("token malformed")
)

// Token is a signed credential together with its expiry. The Value field
// is the serialized JWT handed to the client; Exp is the UTC expiration.
type Token struct {
	Value string
	Exp   time.Time
}

// SessionClaims are the claims bound into a session token at login. The
// server keeps no session store; these claims are the entire session.
type SessionClaims struct {
	Email string
	Role  model.Role
}

// NewSessionToken builds and signs an HS256 JWT binding {email, role}.
// Sessions are valid for ttl (one hour in production) and are invalidated
// only by expiry or by the client discarding the token.
func NewSessionToken(secret, email string, role model.Role, ttl time.Duration) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"email": email,
		"role":  uint64(role),
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// NewCSRFToken signs an HS256 JWT carrying only expiry and issue time.
// It proves possession of a value delivered outside the cookie channel,
// so it binds no identity claims. It must be signed with a secret
// distinct from the session secret.
func NewCSRFToken(secret string, ttl time.Duration) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// VerifySession parses and validates a session token and returns the
// decoded claims. The error is ErrTokenExpired or ErrTokenMalformed.
func VerifySession(secret, raw string) (SessionClaims, error) {
	tok, err := parseHS256(secret, raw)
	if err != nil {
		return SessionClaims{}, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrTokenMalformed
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return SessionClaims{}, ErrTokenMalformed
	}
	// JSON numbers decode as float64.
	roleNum, ok := claims["role"].(float64)
	if !ok {
		return SessionClaims{}, ErrTokenMalformed
	}
	return SessionClaims{Email: email, Role: model.Role(roleNum)}, nil
}

// VerifyCSRF parses and validates an anti-forgery token. Only the
// signature and expiry matter; any claims are ignored.
func VerifyCSRF(secret, raw string) error {
	_, err := parseHS256(secret, raw)
	return err
}

func parseHS256(secret, raw string) (*jwt.Token, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !tok.Valid {
		return nil, ErrTokenMalformed
	}
	return tok, nil
}
