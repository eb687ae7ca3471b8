package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, "feria-test")

	token, err := issuer.Issue(42, "ana@uninorte.edu.co", []string{"jurado", "profesor"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID failed: %v", err)
	}
	if id != 42 {
		t.Errorf("expected subject 42, got %d", id)
	}
	if claims.Email != "ana@uninorte.edu.co" {
		t.Errorf("expected email in claims, got %q", claims.Email)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "jurado" || claims.Roles[1] != "profesor" {
		t.Errorf("unexpected roles: %v", claims.Roles)
	}
	if claims.Issuer != "feria-test" {
		t.Errorf("expected issuer feria-test, got %q", claims.Issuer)
	}
}

func TestTokenIssuer_NilRolesEncodeAsEmptyList(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, "feria-test")

	token, err := issuer.Issue(1, "a@b.com", nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Roles == nil || len(claims.Roles) != 0 {
		t.Errorf("expected empty role list, got %#v", claims.Roles)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute, "feria-test")
	issued := time.Now().Add(-time.Hour)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(1, "a@b.com", nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour, "feria").Issue(1, "a@b.com", nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = NewTokenIssuer("secret-b", time.Hour, "feria").Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenIssuer_WrongIssuer(t *testing.T) {
	token, err := NewTokenIssuer("secret", time.Hour, "other").Issue(1, "a@b.com", nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := NewTokenIssuer("secret", time.Hour, "feria").Verify(token); err == nil {
		t.Fatal("expected error for foreign issuer")
	}
}

func TestTokenIssuer_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "feria",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := NewTokenIssuer("secret", time.Hour, "feria").Verify(token); err == nil {
		t.Fatal("expected error for alg=none token")
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, "feria")
	for _, tok := range []string{"", "abc", strings.Repeat("x.", 3)} {
		if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestClaims_HasAnyRole(t *testing.T) {
	c := &Claims{Roles: []string{"profesor"}}

	if !c.HasAnyRole("admin", "profesor") {
		t.Error("expected profesor to match")
	}
	if c.HasAnyRole("admin") {
		t.Error("expected admin not to match")
	}
	if c.HasAnyRole() {
		t.Error("expected empty required set not to match")
	}
}

func TestClaims_UserIDInvalid(t *testing.T) {
	for _, sub := range []string{"", "abc", "0", "-3"} {
		c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
		if _, err := c.UserID(); err == nil {
			t.Errorf("UserID with subject %q: expected error", sub)
		}
	}
}
