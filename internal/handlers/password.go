package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"github.com/miga-registro/registry-api/internal/notifier"
	"github.com/miga-registro/registry-api/internal/security"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type PasswordHandler struct {
	db       *gorm.DB
	notifier notifier.Notifier
	urlBase  string
	tokenTTL time.Duration
}

func NewPasswordHandler(db *gorm.DB, n notifier.Notifier, urlBase string, ttlMinutes int) *PasswordHandler {
	if ttlMinutes <= 0 {
		ttlMinutes = 30
	}
	return &PasswordHandler{
		db:       db,
		notifier: n,
		urlBase:  urlBase,
		tokenTTL: time.Duration(ttlMinutes) * time.Minute,
	}
}

type RequestResetRequest struct {
	Body struct {
		Email string `json:"email" required:"true"`
	}
}

type RequestResetResponse struct {
	Body struct {
		OK        bool       `json:"ok"`
		Msg       string     `json:"msg"`
		URL       string     `json:"url,omitempty"`
		ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	}
}

const resetNeutralMsg = "Si el correo existe, se enviará un enlace de recuperación."

// HandleRequest starts a reset. The response is identical whether or not the
// account exists, so the endpoint cannot be used to probe for emails.
func (h *PasswordHandler) HandleRequest(ctx context.Context, input *RequestResetRequest) (*RequestResetResponse, error) {
	email := lowered(input.Body.Email)
	if email == "" {
		return nil, huma.Error400BadRequest("Email requerido.")
	}

	res := &RequestResetResponse{}
	res.Body.OK = true
	res.Body.Msg = resetNeutralMsg

	var user models.User
	err := h.db.Where("email = ? AND activo = ?", email, true).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return res, nil
	}
	if err != nil {
		logger.L().Error("reset lookup failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error generando enlace de recuperación.")
	}

	token, digest := security.NewResetToken()
	expiresAt := time.Now().Add(h.tokenTTL)

	purpose := models.ResetPurposeReset
	if strings.TrimSpace(user.Password) == "" {
		purpose = models.ResetPurposeSetup
	}

	reset := models.PasswordReset{
		UserID:    user.ID,
		TokenHash: digest,
		ExpiresAt: expiresAt,
		Purpose:   purpose,
	}
	if err := h.db.Create(&reset).Error; err != nil {
		logger.L().Error("storing reset token failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error generando enlace de recuperación.")
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyPasswordReset(security.MaskEmail(user.Email), expiresAt); err != nil {
			// Delivery problems must not reveal account state.
			logger.L().Warn("reset notification failed", zap.Error(err))
		}
	}

	res.Body.URL = h.urlBase + "?token=" + token
	res.Body.ExpiresAt = &expiresAt
	return res, nil
}

type ValidateResetRequest struct {
	Token string `query:"token"`
}

type ValidateResetResponse struct {
	Body struct {
		OK        bool      `json:"ok"`
		Email     string    `json:"email"`
		Purpose   string    `json:"purpose"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
}

func (h *PasswordHandler) HandleValidate(ctx context.Context, input *ValidateResetRequest) (*ValidateResetResponse, error) {
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return nil, huma.Error400BadRequest("Token requerido.")
	}

	reset, err := h.findLiveToken(token)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.First(&user, reset.UserID).Error; err != nil {
		logger.L().Error("reset user lookup failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error validando token.")
	}

	res := &ValidateResetResponse{}
	res.Body.OK = true
	res.Body.Email = security.MaskEmail(user.Email)
	res.Body.Purpose = reset.Purpose
	res.Body.ExpiresAt = reset.ExpiresAt
	return res, nil
}

type ChangePasswordRequest struct {
	Body struct {
		Token       string `json:"token" required:"true"`
		NewPassword string `json:"newPassword" required:"true"`
	}
}

func (h *PasswordHandler) HandleChange(ctx context.Context, input *ChangePasswordRequest) (*MessageResponse, error) {
	if input.Body.Token == "" || input.Body.NewPassword == "" {
		return nil, huma.Error400BadRequest("Datos incompletos.")
	}
	if len(input.Body.NewPassword) < minPasswordLength {
		return nil, huma.Error400BadRequest("Password muy corto (min 8).")
	}

	reset, err := h.findLiveToken(input.Body.Token)
	if err != nil {
		return nil, err
	}

	var user models.User
	lookupErr := h.db.Where("id_usuario = ? AND activo = ?", reset.UserID, true).First(&user).Error
	if lookupErr == gorm.ErrRecordNotFound {
		return nil, huma.Error400BadRequest("Usuario no válido.")
	}
	if lookupErr != nil {
		logger.L().Error("reset user lookup failed", zap.Error(lookupErr))
		return nil, huma.Error500InternalServerError("Error actualizando contraseña.")
	}

	hash, hashErr := security.HashPassword(input.Body.NewPassword)
	if hashErr != nil {
		logger.L().Error("hashing password failed", zap.Error(hashErr))
		return nil, huma.Error500InternalServerError("Error actualizando contraseña.")
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password", hash).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(reset).Update("used_at", now).Error
	})
	if txErr != nil {
		logger.L().Error("password change failed", zap.Error(txErr), zap.Uint("user_id", user.ID))
		return nil, huma.Error500InternalServerError("Error actualizando contraseña.")
	}

	res := &MessageResponse{}
	res.Body.OK = true
	res.Body.Msg = "Contraseña actualizada correctamente."
	return res, nil
}

// findLiveToken resolves an unused, unexpired reset row by token digest.
func (h *PasswordHandler) findLiveToken(token string) (*models.PasswordReset, error) {
	digest := security.HashResetToken(token)

	var reset models.PasswordReset
	err := h.db.Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", digest, time.Now()).
		First(&reset).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error400BadRequest("Token inválido o expirado.")
	}
	if err != nil {
		logger.L().Error("reset token lookup failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error validando token.")
	}
	return &reset, nil
}
