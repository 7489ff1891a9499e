package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MarriageDetailHandler struct {
	db *gorm.DB
}

func NewMarriageDetailHandler(db *gorm.DB) *MarriageDetailHandler {
	return &MarriageDetailHandler{db: db}
}

type ListMarriageDetailsRequest struct {
	pageParams
}

type ListMarriageDetailsResponse struct {
	Body struct {
		OK          bool                    `json:"ok"`
		Details     []models.MarriageDetail `json:"matrimonio_detalle"`
		TotalItems  int64                   `json:"totalItems"`
		TotalPages  int                     `json:"totalPages"`
		CurrentPage int                     `json:"currentPage"`
	}
}

func (h *MarriageDetailHandler) HandleList(ctx context.Context, input *ListMarriageDetailsRequest) (*ListMarriageDetailsResponse, error) {
	page, limit, offset := input.normalize()

	var count int64
	if err := h.db.Model(&models.MarriageDetail{}).Count(&count).Error; err != nil {
		logger.L().Error("counting marriage details failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los detalles de matrimonio")
	}

	var rows []models.MarriageDetail
	if err := h.db.Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		logger.L().Error("listing marriage details failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los detalles de matrimonio")
	}

	res := &ListMarriageDetailsResponse{}
	res.Body.OK = true
	res.Body.Details = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}

type CreateMarriageDetailRequest struct {
	Body struct {
		SacramentID   uint   `json:"sacramento_id_sacramento" required:"true"`
		CivilRegistry string `json:"reg_civil"`
		CeremonyPlace string `json:"lugar_ceremonia"`
		ActNumber     int    `json:"numero_acta"`
	}
}

type MarriageDetailResponse struct {
	Body struct {
		OK     bool                   `json:"ok"`
		Detail *models.MarriageDetail `json:"matrimonioDetalle"`
	}
}

func (h *MarriageDetailHandler) HandleCreate(ctx context.Context, input *CreateMarriageDetailRequest) (*MarriageDetailResponse, error) {
	var existing models.MarriageDetail
	err := h.db.Where("sacramento_id_sacramento = ?", input.Body.SacramentID).First(&existing).Error
	if err == nil {
		return nil, huma.Error400BadRequest("El detalle de matrimonio ya está registrado")
	}
	if err != gorm.ErrRecordNotFound {
		logger.L().Error("checking marriage detail uniqueness failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	detail := models.MarriageDetail{
		SacramentID:   input.Body.SacramentID,
		CivilRegistry: input.Body.CivilRegistry,
		CeremonyPlace: input.Body.CeremonyPlace,
		ActNumber:     input.Body.ActNumber,
	}
	if err := h.db.Create(&detail).Error; err != nil {
		logger.L().Error("creating marriage detail failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	res := &MarriageDetailResponse{}
	res.Body.OK = true
	res.Body.Detail = &detail
	return res, nil
}

type GetMarriageDetailRequest struct {
	ID uint `path:"id" doc:"Sacrament id the detail belongs to"`
}

func (h *MarriageDetailHandler) HandleGet(ctx context.Context, input *GetMarriageDetailRequest) (*MarriageDetailResponse, error) {
	var detail models.MarriageDetail
	err := h.db.Where("sacramento_id_sacramento = ?", input.ID).First(&detail).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Detalle de matrimonio no encontrado")
	}
	if err != nil {
		logger.L().Error("loading marriage detail failed", zap.Error(err), zap.Uint("sacrament_id", input.ID))
		return nil, huma.Error500InternalServerError("Error al obtener detalle de matrimonio")
	}

	res := &MarriageDetailResponse{}
	res.Body.OK = true
	res.Body.Detail = &detail
	return res, nil
}

type UpdateMarriageDetailRequest struct {
	ID   uint `path:"id" doc:"Sacrament id the detail belongs to"`
	Body struct {
		CivilRegistry *string `json:"reg_civil,omitempty"`
		CeremonyPlace *string `json:"lugar_ceremonia,omitempty"`
		ActNumber     *int    `json:"numero_acta,omitempty"`
	}
}

func (h *MarriageDetailHandler) HandleUpdate(ctx context.Context, input *UpdateMarriageDetailRequest) (*MarriageDetailResponse, error) {
	var detail models.MarriageDetail
	err := h.db.Where("sacramento_id_sacramento = ?", input.ID).First(&detail).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Detalle de matrimonio no encontrado")
	}
	if err != nil {
		logger.L().Error("loading marriage detail failed", zap.Error(err), zap.Uint("sacrament_id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el detalle de matrimonio")
	}

	updates := map[string]any{}
	if input.Body.CivilRegistry != nil {
		updates["reg_civil"] = *input.Body.CivilRegistry
	}
	if input.Body.CeremonyPlace != nil {
		updates["lugar_ceremonia"] = *input.Body.CeremonyPlace
	}
	if input.Body.ActNumber != nil {
		updates["numero_acta"] = *input.Body.ActNumber
	}
	if len(updates) == 0 {
		return nil, huma.Error400BadRequest("No se enviaron campos a actualizar")
	}

	if err := h.db.Model(&detail).Updates(updates).Error; err != nil {
		logger.L().Error("updating marriage detail failed", zap.Error(err), zap.Uint("sacrament_id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el detalle de matrimonio")
	}

	res := &MarriageDetailResponse{}
	res.Body.OK = true
	res.Body.Detail = &detail
	return res, nil
}
