package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"contractbridge/internal/domain"
)

func TestTicketServiceIssueClaims(t *testing.T) {
	secret := "test-secret"
	svc := NewTicketService(secret, time.Minute)

	tokenString, err := svc.Issue("user123", "match-456", domain.West)
	if err != nil {
		t.Fatalf("issue ticket error: %v", err)
	}

	claims := parseTicketClaims(t, tokenString, secret)
	if got := stringClaim(t, claims, "sub"); got != "user123" {
		t.Fatalf("sub = %s, want user123", got)
	}
	if got := stringClaim(t, claims, "mid"); got != "match-456" {
		t.Fatalf("mid = %s, want match-456", got)
	}
	if got := stringClaim(t, claims, "seat"); got != "W" {
		t.Fatalf("seat = %s, want W", got)
	}
}

func TestTicketServiceVerify(t *testing.T) {
	svc := NewTicketService("secret", time.Minute)
	tokenString, err := svc.Issue("user123", "match-1", domain.South)
	if err != nil {
		t.Fatalf("issue ticket error: %v", err)
	}

	user, seat, err := svc.Verify(tokenString, "match-1")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if user != "user123" || seat != domain.South {
		t.Fatalf("verify = %s %s, want user123 S", user, seat)
	}

	if _, _, err := svc.Verify(tokenString, "match-2"); !errors.Is(err, ErrTicketWrongMID) {
		t.Fatalf("err = %v, want ErrTicketWrongMID", err)
	}
	other := NewTicketService("other-secret", time.Minute)
	if _, _, err := other.Verify(tokenString, "match-1"); !errors.Is(err, ErrTicketInvalid) {
		t.Fatalf("err = %v, want ErrTicketInvalid", err)
	}
}

func TestTicketServiceRejectsExpired(t *testing.T) {
	svc := NewTicketService("secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tokenString, err := svc.Issue("user123", "match-1", domain.North)
	if err != nil {
		t.Fatalf("issue ticket error: %v", err)
	}
	if _, _, err := svc.Verify(tokenString, "match-1"); !errors.Is(err, ErrTicketInvalid) {
		t.Fatalf("err = %v, want ErrTicketInvalid", err)
	}
}

func TestTicketServiceRequiresConfig(t *testing.T) {
	svc := NewTicketService("", time.Minute)
	if _, err := svc.Issue("user", "match", domain.North); !errors.Is(err, ErrTicketConfig) {
		t.Fatalf("err = %v, want ErrTicketConfig", err)
	}
	svc = NewTicketService("secret", 0)
	if _, err := svc.Issue("user", "match", domain.NoSeat); err == nil {
		t.Fatal("expected error for missing seat")
	}
	if _, err := svc.Issue("", "match", domain.North); err == nil {
		t.Fatal("expected error for missing user")
	}
}

func parseTicketClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func stringClaim(t *testing.T, claims jwt.MapClaims, name string) string {
	t.Helper()
	value, ok := claims[name]
	if !ok {
		t.Fatalf("missing %s claim", name)
	}
	str, ok := value.(string)
	if !ok {
		t.Fatalf("%s claim is not a string", name)
	}
	return str
}
