package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/mirrwin/daymark/internal/apperr"
	"github.com/mirrwin/daymark/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	u := &models.User{ID: "u1", Username: "alice", Role: models.RoleAdmin}

	tok, err := tm.Issue(u, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tm.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != models.RoleAdmin || claims.Subject != "alice" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenVerifyFailures(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	u := &models.User{ID: "u1", Username: "alice", Role: models.RoleUser}

	t.Run("expired", func(t *testing.T) {
		tok, err := tm.Issue(u, time.Now().Add(-2*time.Hour))
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if _, err := tm.Verify(tok); !errors.Is(err, apperr.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := tm.Issue(u, time.Now())
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		other := NewTokenManager("different-secret", time.Hour)
		if _, err := other.Verify(tok); !errors.Is(err, apperr.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := tm.Verify("not.a.token"); !errors.Is(err, apperr.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})
}
