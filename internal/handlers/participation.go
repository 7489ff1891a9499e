package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ParticipationHandler struct {
	db *gorm.DB
}

func NewParticipationHandler(db *gorm.DB) *ParticipationHandler {
	return &ParticipationHandler{db: db}
}

type ListParticipationsRequest struct {
	pageParams
}

type ListParticipationsResponse struct {
	Body struct {
		OK             bool                   `json:"ok"`
		Participations []models.Participation `json:"persona_sacramentos"`
		TotalItems     int64                  `json:"totalItems"`
		TotalPages     int                    `json:"totalPages"`
		CurrentPage    int                    `json:"currentPage"`
	}
}

func (h *ParticipationHandler) HandleList(ctx context.Context, input *ListParticipationsRequest) (*ListParticipationsResponse, error) {
	page, limit, offset := input.normalize()

	var count int64
	if err := h.db.Model(&models.Participation{}).Count(&count).Error; err != nil {
		logger.L().Error("counting participations failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener las relaciones persona-sacramento")
	}

	var rows []models.Participation
	err := h.db.Offset(offset).Limit(limit).
		Preload("Person").
		Preload("Sacrament").
		Preload("Role").
		Find(&rows).Error
	if err != nil {
		logger.L().Error("listing participations failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener las relaciones persona-sacramento")
	}

	res := &ListParticipationsResponse{}
	res.Body.OK = true
	res.Body.Participations = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}

type CreateParticipationRequest struct {
	Body struct {
		PersonID    uint `json:"persona_id_persona" required:"true"`
		RoleID      uint `json:"rol_sacramento_id_rol_sacra" required:"true"`
		SacramentID uint `json:"sacramento_id_sacramento" required:"true"`
	}
}

type ParticipationResponse struct {
	Body struct {
		OK            bool                  `json:"ok"`
		Participation *models.Participation `json:"personaSacramento"`
	}
}

// HandleCreate adds a single participation row. The registry forms use the
// complete-sacrament flow instead; this endpoint backs manual corrections.
func (h *ParticipationHandler) HandleCreate(ctx context.Context, input *CreateParticipationRequest) (*ParticipationResponse, error) {
	var existing models.Participation
	err := h.db.Where(
		"persona_id_persona = ? AND rol_sacramento_id_rol_sacra = ? AND sacramento_id_sacramento = ?",
		input.Body.PersonID, input.Body.RoleID, input.Body.SacramentID,
	).First(&existing).Error
	if err == nil {
		return nil, huma.Error400BadRequest("Esta relación persona-sacramento ya existe")
	}
	if err != gorm.ErrRecordNotFound {
		logger.L().Error("checking participation uniqueness failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	participation := models.Participation{
		PersonID:    input.Body.PersonID,
		RoleID:      input.Body.RoleID,
		SacramentID: input.Body.SacramentID,
	}
	if err := h.db.Create(&participation).Error; err != nil {
		logger.L().Error("creating participation failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	res := &ParticipationResponse{}
	res.Body.OK = true
	res.Body.Participation = &participation
	return res, nil
}

type ParticipationsBySacramentRequest struct {
	SacramentID uint `path:"sacramentoId"`
}

type ParticipationListResponse struct {
	Body struct {
		OK             bool                   `json:"ok"`
		Participations []models.Participation `json:"personaSacramentos"`
	}
}

func (h *ParticipationHandler) HandleBySacrament(ctx context.Context, input *ParticipationsBySacramentRequest) (*ParticipationListResponse, error) {
	var rows []models.Participation
	err := h.db.Where("sacramento_id_sacramento = ?", input.SacramentID).
		Preload("Person").
		Preload("Role").
		Find(&rows).Error
	if err != nil {
		logger.L().Error("listing sacrament participants failed", zap.Error(err), zap.Uint("sacrament_id", input.SacramentID))
		return nil, huma.Error500InternalServerError("Error al obtener las personas del sacramento")
	}

	res := &ParticipationListResponse{}
	res.Body.OK = true
	res.Body.Participations = rows
	return res, nil
}

type ParticipationsByPersonRequest struct {
	PersonID uint `path:"personaId"`
}

func (h *ParticipationHandler) HandleByPerson(ctx context.Context, input *ParticipationsByPersonRequest) (*ParticipationListResponse, error) {
	var rows []models.Participation
	err := h.db.Where("persona_id_persona = ?", input.PersonID).
		Preload("Sacrament").
		Preload("Role").
		Find(&rows).Error
	if err != nil {
		logger.L().Error("listing person sacraments failed", zap.Error(err), zap.Uint("person_id", input.PersonID))
		return nil, huma.Error500InternalServerError("Error al obtener los sacramentos de la persona")
	}

	res := &ParticipationListResponse{}
	res.Body.OK = true
	res.Body.Participations = rows
	return res, nil
}
