package auth

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/miga-registro/registry-api/internal/config"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"github.com/miga-registro/registry-api/internal/security"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenDuration matches the legacy session lifetime.
const TokenDuration = 7 * time.Hour

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// GenerateToken signs a session JWT carrying the operator id and email.
func (h *AuthHandler) GenerateToken(userID uint, email string) (string, error) {
	claims := jwt.MapClaims{
		"uid":    userID,
		"correo": email,
		"exp":    time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" doc:"Operator email" required:"true"`
		Password string `json:"password" doc:"Plain password" required:"true"`
	}
}

type LoginResponse struct {
	Body struct {
		OK    bool         `json:"ok"`
		User  *models.User `json:"usuario"`
		Token string       `json:"token"`
	}
}

// HandleLogin verifies email+password and issues a session token.
func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	var user models.User
	if err := h.db.Where("email = ? AND activo = ?", input.Body.Email, true).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, huma.Error400BadRequest("Usuario no existe")
		}
		logger.L().Error("login lookup failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	valid, err := security.VerifyPassword(input.Body.Password, user.Password)
	if err != nil {
		logger.L().Error("password verification failed", zap.Error(err), zap.Uint("user_id", user.ID))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}
	if !valid {
		return nil, huma.Error400BadRequest("Contraseña incorrecta")
	}

	token, err := h.GenerateToken(user.ID, user.Email)
	if err != nil {
		logger.L().Error("token generation failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al generar el token")
	}

	res := &LoginResponse{}
	res.Body.OK = true
	res.Body.User = &user
	res.Body.Token = token
	return res, nil
}

type RenewRequest struct{}

type RenewResponse struct {
	Body struct {
		OK    bool   `json:"ok"`
		UID   uint   `json:"uid"`
		Email string `json:"email"`
		Token string `json:"token"`
	}
}

// HandleRenew re-issues a token for the already-authenticated session.
func (h *AuthHandler) HandleRenew(ctx context.Context, input *RenewRequest) (*RenewResponse, error) {
	uid, ok := ctx.Value(UserIDKey).(uint)
	email, okEmail := ctx.Value(EmailKey).(string)
	if !ok || !okEmail {
		return nil, huma.Error400BadRequest("Faltan datos de la persona")
	}

	token, err := h.GenerateToken(uid, email)
	if err != nil {
		logger.L().Error("token renewal failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al generar el token")
	}

	res := &RenewResponse{}
	res.Body.OK = true
	res.Body.UID = uid
	res.Body.Email = email
	res.Body.Token = token
	return res, nil
}
