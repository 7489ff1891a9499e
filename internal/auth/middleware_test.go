package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/miga-registro/registry-api/internal/config"
)

func TestParseToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil)

	t.Run("ValidToken", func(t *testing.T) {
		token, err := handler.GenerateToken(42, "lucia@parroquia.test")
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		uid, email, err := handler.parseToken(token)
		if err != nil {
			t.Fatalf("expected token to parse, got %v", err)
		}
		if uid != 42 {
			t.Errorf("expected uid 42, got %d", uid)
		}
		if email != "lucia@parroquia.test" {
			t.Errorf("expected email from claims, got %q", email)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		claims := jwt.MapClaims{
			"uid":    float64(42),
			"correo": "lucia@parroquia.test",
			"exp":    time.Now().Add(-time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

		if _, _, err := handler.parseToken(tokenString); err == nil {
			t.Error("expected an error for an expired token")
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		claims := jwt.MapClaims{
			"uid":    float64(42),
			"correo": "lucia@parroquia.test",
			"exp":    time.Now().Add(time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, _ := token.SignedString([]byte("otro-secreto"))

		if _, _, err := handler.parseToken(tokenString); err == nil {
			t.Error("expected an error for a token signed with another secret")
		}
	})

	t.Run("MissingUIDClaim", func(t *testing.T) {
		claims := jwt.MapClaims{
			"correo": "lucia@parroquia.test",
			"exp":    time.Now().Add(time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

		if _, _, err := handler.parseToken(tokenString); err == nil {
			t.Error("expected an error for a token without a uid claim")
		}
	})
}

func TestSessionRecorder(t *testing.T) {
	ctx, rec := WithSessionRecorder(context.Background())

	// The email must surface on the original recorder even when it is set
	// through a derived context further down the chain.
	derived := context.WithValue(ctx, contextKey("other"), "value")
	RecordSessionEmail(derived, "lucia@parroquia.test")

	if rec.Email != "lucia@parroquia.test" {
		t.Errorf("expected recorder to hold the session email, got %q", rec.Email)
	}
}

func TestRecordSessionEmailWithoutRecorder(t *testing.T) {
	// Must be a no-op when no recorder was planted.
	RecordSessionEmail(context.Background(), "lucia@parroquia.test")
}
