package auth_test

import (
	"testing"
	"time"

	"github.com/diagnosis/clinic-bookings/internal/platform/auth"
)

func TestIssueAndParse(t *testing.T) {
	mgr := auth.NewManager("test-secret", time.Hour)

	token, err := mgr.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := mgr.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("expected email claim a@x.com, got %q", claims.Email)
	}
}

func TestParseExpiredToken(t *testing.T) {
	mgr := auth.NewManager("test-secret", -time.Minute)

	token, err := mgr.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := mgr.Parse(token); err == nil {
		t.Error("expected expired token to fail validation")
	}
}

func TestParseWrongSecret(t *testing.T) {
	mgr := auth.NewManager("test-secret", time.Hour)
	other := auth.NewManager("other-secret", time.Hour)

	token, err := mgr.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Parse(token); err == nil {
		t.Error("expected token signed with another secret to fail")
	}
}

func TestParseGarbage(t *testing.T) {
	mgr := auth.NewManager("test-secret", time.Hour)

	if _, err := mgr.Parse("not-a-token"); err == nil {
		t.Error("expected garbage token to fail")
	}
}
