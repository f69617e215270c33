package auth

import (
	"testing"
	"time"

	"github.com/aroy/employee-dashboard/internal/model"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := "session-secret"
	tok, err := NewSessionToken(secret, "a@x.com", model.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}

	until := time.Until(tok.Exp)
	if until < 59*time.Minute || until > 61*time.Minute {
		t.Fatalf("expiry not ~1h out: %s", until)
	}

	claims, err := VerifySession(secret, tok.Value)
	if err != nil {
		t.Fatalf("VerifySession error: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("email mismatch: got %q", claims.Email)
	}
	if claims.Role != model.RoleAdmin {
		t.Fatalf("role mismatch: got %v", claims.Role)
	}
}

func TestSessionToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("s", "a@x.com", model.RoleEmployee, -time.Minute)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	_, err = VerifySession("s", tok.Value)
	if err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSessionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("right", "a@x.com", model.RoleEmployee, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	_, err = VerifySession("wrong", tok.Value)
	if err != ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

// A bad signature must be rejected the same way no matter which claims
// the token carries: a forged admin token and a forged garbage token are
// indistinguishable to the verifier.
func TestSessionToken_NoClaimBasedBypass(t *testing.T) {
	t.Parallel()

	admin, err := NewSessionToken("attacker-key", "root@x.com", model.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	employee, err := NewSessionToken("attacker-key", "nobody@x.com", model.RoleEmployee, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}

	_, errAdmin := VerifySession("server-key", admin.Value)
	_, errEmployee := VerifySession("server-key", employee.Value)
	if errAdmin != ErrTokenMalformed || errEmployee != ErrTokenMalformed {
		t.Fatalf("rejections differ: admin=%v employee=%v", errAdmin, errEmployee)
	}
}

func TestSessionToken_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := VerifySession("k", "not.a.jwt"); err != ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
	if _, err := VerifySession("k", ""); err != ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestCSRFToken(t *testing.T) {
	t.Parallel()

	tok, err := NewCSRFToken("csrf-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCSRFToken error: %v", err)
	}
	if err := VerifyCSRF("csrf-secret", tok.Value); err != nil {
		t.Fatalf("VerifyCSRF error: %v", err)
	}
	if err := VerifyCSRF("other-secret", tok.Value); err != ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}

	expired, err := NewCSRFToken("csrf-secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewCSRFToken error: %v", err)
	}
	if err := VerifyCSRF("csrf-secret", expired.Value); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

// The session secret must never verify a CSRF token and vice versa.
func TestTokens_DistinctSecrets(t *testing.T) {
	t.Parallel()

	session, err := NewSessionToken("jwt-secret", "a@x.com", model.RoleEmployee, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	if err := VerifyCSRF("csrf-secret", session.Value); err == nil {
		t.Fatal("session token accepted as CSRF token")
	}

	csrf, err := NewCSRFToken("csrf-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCSRFToken error: %v", err)
	}
	if _, err := VerifySession("jwt-secret", csrf.Value); err == nil {
		t.Fatal("CSRF token accepted as session token")
	}
}
