package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	EmailKey  contextKey = "email"
)

// TokenScheme is the OpenAPI security scheme name for the x-token header.
// Operations declaring it are enforced by RequireToken.
const TokenScheme = "tokenAuth"

// SessionRecorder carries the authenticated email out to middleware that
// wraps the token check. Context values only flow inward, so outer middleware
// plants a recorder on the way in and reads it after the handler finishes.
type SessionRecorder struct {
	Email string
}

type recorderKey struct{}

// WithSessionRecorder derives a context carrying a fresh recorder.
func WithSessionRecorder(ctx context.Context) (context.Context, *SessionRecorder) {
	rec := &SessionRecorder{}
	return context.WithValue(ctx, recorderKey{}, rec), rec
}

// RecordSessionEmail notes the authenticated email on the context's recorder,
// when one is present.
func RecordSessionEmail(ctx context.Context, email string) {
	if rec, ok := ctx.Value(recorderKey{}).(*SessionRecorder); ok {
		rec.Email = email
	}
}

// RequireToken returns a huma middleware that validates the x-token header
// the legacy frontend sends on every operation declaring TokenScheme, and
// stores the session identity on the request context. Operations without the
// scheme pass through untouched.
func (h *AuthHandler) RequireToken(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !needsToken(ctx.Operation()) {
			next(ctx)
			return
		}

		tokenString := ctx.Header("x-token")
		if tokenString == "" {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "No hay token en la petición")
			return
		}

		uid, email, err := h.parseToken(tokenString)
		if err != nil {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Token no válido")
			return
		}

		RecordSessionEmail(ctx.Context(), email)
		ctx = huma.WithValue(ctx, UserIDKey, uid)
		ctx = huma.WithValue(ctx, EmailKey, email)
		next(ctx)
	}
}

func needsToken(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, requirement := range op.Security {
		if _, ok := requirement[TokenScheme]; ok {
			return true
		}
	}
	return false
}

func (h *AuthHandler) parseToken(tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil {
		return 0, "", err
	}
	if !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	uidFloat, ok := claims["uid"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("token missing uid claim")
	}
	email, _ := claims["correo"].(string)

	return uint(uidFloat), email, nil
}
