package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ParishHandler struct {
	db *gorm.DB
}

func NewParishHandler(db *gorm.DB) *ParishHandler {
	return &ParishHandler{db: db}
}

type ListParishesRequest struct {
	pageParams
}

type ListParishesResponse struct {
	Body struct {
		OK          bool            `json:"ok"`
		Parishes    []models.Parish `json:"parroquias"`
		TotalItems  int64           `json:"totalItems"`
		TotalPages  int             `json:"totalPages"`
		CurrentPage int             `json:"currentPage"`
	}
}

func (h *ParishHandler) HandleList(ctx context.Context, input *ListParishesRequest) (*ListParishesResponse, error) {
	page, limit, offset := input.normalize()

	var count int64
	if err := h.db.Model(&models.Parish{}).Count(&count).Error; err != nil {
		logger.L().Error("counting parishes failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener las parroquias")
	}

	var rows []models.Parish
	if err := h.db.Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		logger.L().Error("listing parishes failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener las parroquias")
	}

	res := &ListParishesResponse{}
	res.Body.OK = true
	res.Body.Parishes = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}

type CreateParishRequest struct {
	Body struct {
		Name    string `json:"nombre" required:"true"`
		Address string `json:"direccion" required:"true"`
		Phone   string `json:"telefono" required:"true"`
		Email   string `json:"email" required:"true"`
	}
}

type ParishResponse struct {
	Body struct {
		OK     bool           `json:"ok"`
		Parish *models.Parish `json:"parroquia"`
	}
}

func (h *ParishHandler) HandleCreate(ctx context.Context, input *CreateParishRequest) (*ParishResponse, error) {
	var existing models.Parish
	err := h.db.Where("email = ?", input.Body.Email).First(&existing).Error
	if err == nil {
		return nil, huma.Error400BadRequest("El email de la parroquia ya está registrado")
	}
	if err != gorm.ErrRecordNotFound {
		logger.L().Error("checking parish uniqueness failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	parish := models.Parish{
		Name:    input.Body.Name,
		Address: input.Body.Address,
		Phone:   input.Body.Phone,
		Email:   input.Body.Email,
	}
	if err := h.db.Create(&parish).Error; err != nil {
		logger.L().Error("creating parish failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	res := &ParishResponse{}
	res.Body.OK = true
	res.Body.Parish = &parish
	return res, nil
}

type GetParishRequest struct {
	ID uint `path:"id"`
}

func (h *ParishHandler) HandleGet(ctx context.Context, input *GetParishRequest) (*ParishResponse, error) {
	var parish models.Parish
	err := h.db.First(&parish, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Parroquia no encontrada")
	}
	if err != nil {
		logger.L().Error("loading parish failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al obtener parroquia")
	}

	res := &ParishResponse{}
	res.Body.OK = true
	res.Body.Parish = &parish
	return res, nil
}

type UpdateParishRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Name    *string `json:"nombre,omitempty"`
		Address *string `json:"direccion,omitempty"`
		Phone   *string `json:"telefono,omitempty"`
		Email   *string `json:"email,omitempty"`
	}
}

func (h *ParishHandler) HandleUpdate(ctx context.Context, input *UpdateParishRequest) (*ParishResponse, error) {
	var parish models.Parish
	err := h.db.First(&parish, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Parroquia no encontrada")
	}
	if err != nil {
		logger.L().Error("loading parish failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar la parroquia")
	}

	updates := map[string]any{}
	if input.Body.Name != nil {
		updates["nombre"] = *input.Body.Name
	}
	if input.Body.Address != nil {
		updates["direccion"] = *input.Body.Address
	}
	if input.Body.Phone != nil {
		updates["telefono"] = *input.Body.Phone
	}
	if input.Body.Email != nil {
		updates["email"] = *input.Body.Email
	}
	if len(updates) == 0 {
		return nil, huma.Error400BadRequest("No se enviaron campos a actualizar")
	}

	if err := h.db.Model(&parish).Updates(updates).Error; err != nil {
		logger.L().Error("updating parish failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar la parroquia")
	}

	res := &ParishResponse{}
	res.Body.OK = true
	res.Body.Parish = &parish
	return res, nil
}
