package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SacramentHandler struct {
	db *gorm.DB
}

func NewSacramentHandler(db *gorm.DB) *SacramentHandler {
	return &SacramentHandler{db: db}
}

type ListSacramentsRequest struct {
	pageParams
}

type ListSacramentsResponse struct {
	Body struct {
		OK          bool               `json:"ok"`
		Sacraments  []models.Sacrament `json:"sacramento"`
		TotalItems  int64              `json:"totalItems"`
		TotalPages  int                `json:"totalPages"`
		CurrentPage int                `json:"currentPage"`
	}
}

func (h *SacramentHandler) list(all bool, input *ListSacramentsRequest) (*ListSacramentsResponse, error) {
	page, limit, offset := input.normalize()

	query := h.db.Model(&models.Sacrament{})
	if !all {
		query = query.Where("activo = ?", true)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.L().Error("counting sacraments failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los sacramentos")
	}

	var rows []models.Sacrament
	if err := query.Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		logger.L().Error("listing sacraments failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los sacramentos")
	}

	res := &ListSacramentsResponse{}
	res.Body.OK = true
	res.Body.Sacraments = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}

// HandleList returns the active sacraments, paginated.
func (h *SacramentHandler) HandleList(ctx context.Context, input *ListSacramentsRequest) (*ListSacramentsResponse, error) {
	return h.list(false, input)
}

// HandleListAll includes logically deleted rows.
func (h *SacramentHandler) HandleListAll(ctx context.Context, input *ListSacramentsRequest) (*ListSacramentsResponse, error) {
	return h.list(true, input)
}

type GetSacramentRequest struct {
	ID uint `path:"id"`
}

type SacramentResponse struct {
	Body struct {
		OK        bool              `json:"ok"`
		Sacrament *models.Sacrament `json:"sacramento"`
	}
}

func (h *SacramentHandler) HandleGet(ctx context.Context, input *GetSacramentRequest) (*SacramentResponse, error) {
	var sacrament models.Sacrament
	err := h.db.Where("id_sacramento = ? AND activo = ?", input.ID, true).First(&sacrament).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Sacramento no encontrado")
	}
	if err != nil {
		logger.L().Error("loading sacrament failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al obtener sacramento")
	}

	res := &SacramentResponse{}
	res.Body.OK = true
	res.Body.Sacrament = &sacrament
	return res, nil
}

type CreateSacramentRequest struct {
	Body struct {
		Date     string `json:"fecha_sacramento" required:"true" doc:"Ceremony date, YYYY-MM-DD"`
		Folio    string `json:"foja" required:"true"`
		Number   int    `json:"numero" required:"true"`
		UserID   uint   `json:"usuario_id_usuario" required:"true"`
		ParishID uint   `json:"institucion_parroquia_id_parroquia" required:"true"`
		TypeID   uint   `json:"tipo_sacramento_id_tipo" required:"true"`
	}
}

// HandleCreate inserts a bare sacrament row without participants. The
// complete-create flow is the one the registry forms use.
func (h *SacramentHandler) HandleCreate(ctx context.Context, input *CreateSacramentRequest) (*SacramentResponse, error) {
	now := time.Now()
	sacrament := models.Sacrament{
		Date:         input.Body.Date,
		RegisteredAt: now,
		LastUpdateAt: now,
		Active:       true,
		Folio:        input.Body.Folio,
		Number:       input.Body.Number,
		UserID:       input.Body.UserID,
		ParishID:     input.Body.ParishID,
		TypeID:       input.Body.TypeID,
	}

	if err := h.db.Create(&sacrament).Error; err != nil {
		logger.L().Error("creating sacrament failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al crear el sacramento")
	}

	res := &SacramentResponse{}
	res.Body.OK = true
	res.Body.Sacrament = &sacrament
	return res, nil
}

type UpdateSacramentRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Date     *string `json:"fecha_sacramento,omitempty"`
		Folio    *string `json:"foja,omitempty"`
		Number   *int    `json:"numero,omitempty"`
		UserID   *uint   `json:"usuario_id_usuario,omitempty"`
		ParishID *uint   `json:"institucion_parroquia_id_parroquia,omitempty"`
		TypeID   *uint   `json:"tipo_sacramento_id_tipo,omitempty"`
	}
}

func (h *SacramentHandler) HandleUpdate(ctx context.Context, input *UpdateSacramentRequest) (*SacramentResponse, error) {
	var sacrament models.Sacrament
	err := h.db.Where("id_sacramento = ? AND activo = ?", input.ID, true).First(&sacrament).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Sacramento no encontrado")
	}
	if err != nil {
		logger.L().Error("loading sacrament failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el sacramento")
	}

	updates := map[string]any{}
	if input.Body.Date != nil {
		updates["fecha_sacramento"] = *input.Body.Date
	}
	if input.Body.Folio != nil {
		updates["foja"] = *input.Body.Folio
	}
	if input.Body.Number != nil {
		updates["numero"] = *input.Body.Number
	}
	if input.Body.UserID != nil {
		updates["usuario_id_usuario"] = *input.Body.UserID
	}
	if input.Body.ParishID != nil {
		updates["institucion_parroquia_id_parroquia"] = *input.Body.ParishID
	}
	if input.Body.TypeID != nil {
		updates["tipo_sacramento_id_tipo"] = *input.Body.TypeID
	}
	if len(updates) == 0 {
		return nil, huma.Error400BadRequest("No se enviaron campos a actualizar")
	}
	updates["fecha_actualizacion"] = time.Now()

	if err := h.db.Model(&sacrament).Updates(updates).Error; err != nil {
		logger.L().Error("updating sacrament failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el sacramento")
	}

	res := &SacramentResponse{}
	res.Body.OK = true
	res.Body.Sacrament = &sacrament
	return res, nil
}

type DeleteSacramentRequest struct {
	ID uint `path:"id"`
}

type MessageResponse struct {
	Body struct {
		OK  bool   `json:"ok"`
		Msg string `json:"msg"`
	}
}

// HandleDelete performs the logical delete; participation rows stay attached
// to the inactive sacrament.
func (h *SacramentHandler) HandleDelete(ctx context.Context, input *DeleteSacramentRequest) (*MessageResponse, error) {
	var sacrament models.Sacrament
	err := h.db.Where("id_sacramento = ? AND activo = ?", input.ID, true).First(&sacrament).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Sacramento no encontrado")
	}
	if err != nil {
		logger.L().Error("loading sacrament failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar el sacramento")
	}

	if err := h.db.Model(&sacrament).Update("activo", false).Error; err != nil {
		logger.L().Error("deleting sacrament failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar el sacramento")
	}

	res := &MessageResponse{}
	res.Body.OK = true
	res.Body.Msg = "Sacramento eliminado correctamente"
	return res, nil
}
