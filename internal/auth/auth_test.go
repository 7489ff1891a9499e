package auth

import (
	"context"
	"testing"

	"github.com/miga-registro/registry-api/internal/config"
	"github.com/miga-registro/registry-api/internal/models"
	"github.com/miga-registro/registry-api/internal/security"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestHandleLogin(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.User{})

	hash, err := security.HashPassword("clave-secreta")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		FirstName:    "Lucia",
		PaternalName: "Rojas",
		Email:        "lucia@parroquia.test",
		Password:     hash,
		BirthDate:    "1990-01-01",
		Active:       true,
		Role:         "ADMIN",
	}
	db.Create(&user)

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db)

	t.Run("Success", func(t *testing.T) {
		input := &LoginRequest{}
		input.Body.Email = user.Email
		input.Body.Password = "clave-secreta"

		resp, err := handler.HandleLogin(context.Background(), input)
		if err != nil {
			t.Fatalf("HandleLogin returned error: %v", err)
		}
		if resp.Body.Token == "" {
			t.Error("expected a token")
		}
		if resp.Body.User.Email != user.Email {
			t.Errorf("expected email %s, got %s", user.Email, resp.Body.User.Email)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		input := &LoginRequest{}
		input.Body.Email = user.Email
		input.Body.Password = "otra-clave"

		if _, err := handler.HandleLogin(context.Background(), input); err == nil {
			t.Fatal("expected error for wrong password, got nil")
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		input := &LoginRequest{}
		input.Body.Email = "nadie@parroquia.test"
		input.Body.Password = "clave-secreta"

		if _, err := handler.HandleLogin(context.Background(), input); err == nil {
			t.Fatal("expected error for unknown user, got nil")
		}
	})
}

func TestHandleRenew(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil)

	t.Run("WithSession", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserIDKey, uint(7))
		ctx = context.WithValue(ctx, EmailKey, "lucia@parroquia.test")

		resp, err := handler.HandleRenew(ctx, &RenewRequest{})
		if err != nil {
			t.Fatalf("HandleRenew returned error: %v", err)
		}
		if resp.Body.UID != 7 {
			t.Errorf("expected uid 7, got %d", resp.Body.UID)
		}
		if resp.Body.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("WithoutSession", func(t *testing.T) {
		if _, err := handler.HandleRenew(context.Background(), &RenewRequest{}); err == nil {
			t.Fatal("expected error without session identity, got nil")
		}
	})
}
