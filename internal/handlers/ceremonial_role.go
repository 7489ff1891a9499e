package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CeremonialRoleHandler struct {
	db *gorm.DB
}

func NewCeremonialRoleHandler(db *gorm.DB) *CeremonialRoleHandler {
	return &CeremonialRoleHandler{db: db}
}

type ListCeremonialRolesRequest struct {
	pageParams
}

type ListCeremonialRolesResponse struct {
	Body struct {
		OK          bool                    `json:"ok"`
		Roles       []models.CeremonialRole `json:"roles_sacramento"`
		TotalItems  int64                   `json:"totalItems"`
		TotalPages  int                     `json:"totalPages"`
		CurrentPage int                     `json:"currentPage"`
	}
}

func (h *CeremonialRoleHandler) HandleList(ctx context.Context, input *ListCeremonialRolesRequest) (*ListCeremonialRolesResponse, error) {
	page, limit, offset := input.normalize()

	var count int64
	if err := h.db.Model(&models.CeremonialRole{}).Count(&count).Error; err != nil {
		logger.L().Error("counting ceremonial roles failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los roles de sacramento")
	}

	var rows []models.CeremonialRole
	if err := h.db.Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		logger.L().Error("listing ceremonial roles failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los roles de sacramento")
	}

	res := &ListCeremonialRolesResponse{}
	res.Body.OK = true
	res.Body.Roles = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}

type CreateCeremonialRoleRequest struct {
	Body struct {
		Name string `json:"nombre" required:"true"`
	}
}

type CeremonialRoleResponse struct {
	Body struct {
		OK   bool                   `json:"ok"`
		Role *models.CeremonialRole `json:"rol_sacramento"`
	}
}

// HandleCreate adds a role label to the catalog. Names are stored as typed
// in; the eligibility engine normalizes on comparison.
func (h *CeremonialRoleHandler) HandleCreate(ctx context.Context, input *CreateCeremonialRoleRequest) (*CeremonialRoleResponse, error) {
	role := models.CeremonialRole{Name: input.Body.Name}
	if err := h.db.Create(&role).Error; err != nil {
		logger.L().Error("creating ceremonial role failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	res := &CeremonialRoleResponse{}
	res.Body.OK = true
	res.Body.Role = &role
	return res, nil
}

type GetCeremonialRoleRequest struct {
	ID uint `path:"id"`
}

func (h *CeremonialRoleHandler) HandleGet(ctx context.Context, input *GetCeremonialRoleRequest) (*CeremonialRoleResponse, error) {
	var role models.CeremonialRole
	err := h.db.First(&role, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Rol de sacramento no encontrado")
	}
	if err != nil {
		logger.L().Error("loading ceremonial role failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al obtener rol de sacramento")
	}

	res := &CeremonialRoleResponse{}
	res.Body.OK = true
	res.Body.Role = &role
	return res, nil
}

type UpdateCeremonialRoleRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Name string `json:"nombre" required:"true"`
	}
}

func (h *CeremonialRoleHandler) HandleUpdate(ctx context.Context, input *UpdateCeremonialRoleRequest) (*CeremonialRoleResponse, error) {
	var role models.CeremonialRole
	err := h.db.First(&role, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Rol de sacramento no encontrado")
	}
	if err != nil {
		logger.L().Error("loading ceremonial role failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el rol de sacramento")
	}

	if err := h.db.Model(&role).Update("nombre", input.Body.Name).Error; err != nil {
		logger.L().Error("updating ceremonial role failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el rol de sacramento")
	}

	res := &CeremonialRoleResponse{}
	res.Body.OK = true
	res.Body.Role = &role
	return res, nil
}
