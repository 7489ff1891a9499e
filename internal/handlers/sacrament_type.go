package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SacramentTypeHandler struct {
	db *gorm.DB
}

func NewSacramentTypeHandler(db *gorm.DB) *SacramentTypeHandler {
	return &SacramentTypeHandler{db: db}
}

type ListSacramentTypesRequest struct {
	pageParams
}

type ListSacramentTypesResponse struct {
	Body struct {
		OK          bool                   `json:"ok"`
		Types       []models.SacramentType `json:"tipo_sacramento"`
		TotalItems  int64                  `json:"totalItems"`
		TotalPages  int                    `json:"totalPages"`
		CurrentPage int                    `json:"currentPage"`
	}
}

func (h *SacramentTypeHandler) HandleList(ctx context.Context, input *ListSacramentTypesRequest) (*ListSacramentTypesResponse, error) {
	page, limit, offset := input.normalize()

	query := h.db.Model(&models.SacramentType{}).Where("activo = ?", true)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.L().Error("counting sacrament types failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los tipos de sacramento")
	}

	var rows []models.SacramentType
	if err := query.Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		logger.L().Error("listing sacrament types failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los tipos de sacramento")
	}

	res := &ListSacramentTypesResponse{}
	res.Body.OK = true
	res.Body.Types = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}

type CreateSacramentTypeRequest struct {
	Body struct {
		Name        string `json:"nombre" required:"true"`
		Description string `json:"descripcion"`
	}
}

type SacramentTypeResponse struct {
	Body struct {
		OK   bool                  `json:"ok"`
		Type *models.SacramentType `json:"tipo_sacramento"`
	}
}

func (h *SacramentTypeHandler) HandleCreate(ctx context.Context, input *CreateSacramentTypeRequest) (*SacramentTypeResponse, error) {
	sacType := models.SacramentType{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Active:      true,
	}
	if err := h.db.Create(&sacType).Error; err != nil {
		logger.L().Error("creating sacrament type failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	res := &SacramentTypeResponse{}
	res.Body.OK = true
	res.Body.Type = &sacType
	return res, nil
}

type GetSacramentTypeRequest struct {
	ID uint `path:"id"`
}

func (h *SacramentTypeHandler) HandleGet(ctx context.Context, input *GetSacramentTypeRequest) (*SacramentTypeResponse, error) {
	var sacType models.SacramentType
	err := h.db.Where("id_tipo = ? AND activo = ?", input.ID, true).First(&sacType).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Tipo de sacramento no encontrado")
	}
	if err != nil {
		logger.L().Error("loading sacrament type failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al obtener tipo de sacramento")
	}

	res := &SacramentTypeResponse{}
	res.Body.OK = true
	res.Body.Type = &sacType
	return res, nil
}

type UpdateSacramentTypeRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Name        *string `json:"nombre,omitempty"`
		Description *string `json:"descripcion,omitempty"`
	}
}

func (h *SacramentTypeHandler) HandleUpdate(ctx context.Context, input *UpdateSacramentTypeRequest) (*SacramentTypeResponse, error) {
	var sacType models.SacramentType
	err := h.db.Where("id_tipo = ? AND activo = ?", input.ID, true).First(&sacType).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Tipo de sacramento no encontrado")
	}
	if err != nil {
		logger.L().Error("loading sacrament type failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el tipo de sacramento")
	}

	updates := map[string]any{}
	if input.Body.Name != nil {
		updates["nombre"] = *input.Body.Name
	}
	if input.Body.Description != nil {
		updates["descripcion"] = *input.Body.Description
	}
	if len(updates) == 0 {
		return nil, huma.Error400BadRequest("No se enviaron campos a actualizar")
	}

	if err := h.db.Model(&sacType).Updates(updates).Error; err != nil {
		logger.L().Error("updating sacrament type failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el tipo de sacramento")
	}

	res := &SacramentTypeResponse{}
	res.Body.OK = true
	res.Body.Type = &sacType
	return res, nil
}

type DeleteSacramentTypeRequest struct {
	ID uint `path:"id"`
}

func (h *SacramentTypeHandler) HandleDelete(ctx context.Context, input *DeleteSacramentTypeRequest) (*MessageResponse, error) {
	var sacType models.SacramentType
	err := h.db.Where("id_tipo = ? AND activo = ?", input.ID, true).First(&sacType).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Tipo de sacramento no encontrado")
	}
	if err != nil {
		logger.L().Error("loading sacrament type failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar el tipo de sacramento")
	}

	if err := h.db.Model(&sacType).Update("activo", false).Error; err != nil {
		logger.L().Error("deleting sacrament type failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar el tipo de sacramento")
	}

	res := &MessageResponse{}
	res.Body.OK = true
	res.Body.Msg = "Tipo de sacramento eliminado correctamente"
	return res, nil
}
