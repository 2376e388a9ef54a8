package utils

import (
	"testing"
	"time"

	"billingBack/internal/models"
)

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := m.NewAccessToken(42, models.RoleCustomer, "ravik")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != models.RoleCustomer || claims.Username != "ravik" {
		t.Errorf("claims mismatch: %+v", claims)
	}
	id, err := SubjectID(claims)
	if err != nil || id != 42 {
		t.Errorf("subject = %d, %v; want 42", id, err)
	}
}

func TestManagerRejectsForeignKey(t *testing.T) {
	a, _ := NewManager("a", time.Hour)
	b, _ := NewManager("b", time.Hour)

	token, err := a.NewAccessToken(1, models.RoleAdmin, "admin")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := b.Parse(token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestManagerRejectsExpired(t *testing.T) {
	m, _ := NewManager("secret", time.Nanosecond)
	token, err := m.NewAccessToken(1, models.RoleAdmin, "admin")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestNewManagerValidates(t *testing.T) {
	if _, err := NewManager("", time.Hour); err == nil {
		t.Error("empty key accepted")
	}
	if _, err := NewManager("k", 0); err == nil {
		t.Error("zero ttl accepted")
	}
}
