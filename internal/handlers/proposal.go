package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"github.com/miga-registro/registry-api/internal/notifier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProposalHandler struct {
	db       *gorm.DB
	notifier notifier.Notifier
}

func NewProposalHandler(db *gorm.DB, n notifier.Notifier) *ProposalHandler {
	return &ProposalHandler{db: db, notifier: n}
}

type ListProposalsRequest struct {
	pageParams
}

type ListProposalsResponse struct {
	Body struct {
		OK          bool              `json:"ok"`
		Proposals   []models.Proposal `json:"propuestas"`
		TotalItems  int64             `json:"totalItems"`
		TotalPages  int               `json:"totalPages"`
		CurrentPage int               `json:"currentPage"`
	}
}

func (h *ProposalHandler) HandleList(ctx context.Context, input *ListProposalsRequest) (*ListProposalsResponse, error) {
	page, limit, offset := input.normalize()

	query := h.db.Model(&models.Proposal{}).Where("is_deleted = ?", false)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.L().Error("counting proposals failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener las propuestas")
	}

	var rows []models.Proposal
	if err := query.Order("fecha DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		logger.L().Error("listing proposals failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener las propuestas")
	}

	res := &ListProposalsResponse{}
	res.Body.OK = true
	res.Body.Proposals = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}

type GetProposalRequest struct {
	ID uint `path:"id"`
}

type ProposalResponse struct {
	Body struct {
		OK       bool             `json:"ok"`
		Proposal *models.Proposal `json:"propuesta"`
	}
}

func (h *ProposalHandler) HandleGet(ctx context.Context, input *GetProposalRequest) (*ProposalResponse, error) {
	var proposal models.Proposal
	err := h.db.Where("id_propuesta = ? AND is_deleted = ?", input.ID, false).First(&proposal).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Propuesta no encontrada")
	}
	if err != nil {
		logger.L().Error("loading proposal failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al obtener la propuesta")
	}

	res := &ProposalResponse{}
	res.Body.OK = true
	res.Body.Proposal = &proposal
	return res, nil
}

type CreateProposalRequest struct {
	Body struct {
		Text string `json:"propuesta" required:"true"`
	}
}

// HandleCreate stores a citizen proposal and pings the operations channel.
// Notification failure never fails the request.
func (h *ProposalHandler) HandleCreate(ctx context.Context, input *CreateProposalRequest) (*ProposalResponse, error) {
	text := strings.TrimSpace(input.Body.Text)
	if text == "" {
		return nil, huma.Error400BadRequest("La propuesta no puede estar vacía")
	}

	proposal := models.Proposal{
		Text: text,
		Date: time.Now(),
	}
	if err := h.db.Create(&proposal).Error; err != nil {
		logger.L().Error("creating proposal failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al crear la propuesta")
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyProposal(proposal); err != nil {
			logger.L().Warn("proposal notification failed", zap.Error(err), zap.Uint("id", proposal.ID))
		}
	}

	res := &ProposalResponse{}
	res.Body.OK = true
	res.Body.Proposal = &proposal
	return res, nil
}

type UpdateProposalRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Text      *string `json:"propuesta,omitempty"`
		Published *bool   `json:"publicado,omitempty"`
	}
}

func (h *ProposalHandler) HandleUpdate(ctx context.Context, input *UpdateProposalRequest) (*ProposalResponse, error) {
	var proposal models.Proposal
	err := h.db.Where("id_propuesta = ? AND is_deleted = ?", input.ID, false).First(&proposal).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Propuesta no encontrada")
	}
	if err != nil {
		logger.L().Error("loading proposal failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar la propuesta")
	}

	updates := map[string]any{}
	if input.Body.Text != nil {
		updates["propuesta"] = *input.Body.Text
	}
	if input.Body.Published != nil {
		updates["publicado"] = *input.Body.Published
	}
	if len(updates) == 0 {
		return nil, huma.Error400BadRequest("No se enviaron campos a actualizar")
	}

	if err := h.db.Model(&proposal).Updates(updates).Error; err != nil {
		logger.L().Error("updating proposal failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar la propuesta")
	}

	res := &ProposalResponse{}
	res.Body.OK = true
	res.Body.Proposal = &proposal
	return res, nil
}

type DeleteProposalRequest struct {
	ID uint `path:"id"`
}

func (h *ProposalHandler) HandleDelete(ctx context.Context, input *DeleteProposalRequest) (*MessageResponse, error) {
	var proposal models.Proposal
	err := h.db.Where("id_propuesta = ? AND is_deleted = ?", input.ID, false).First(&proposal).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Propuesta no encontrada")
	}
	if err != nil {
		logger.L().Error("loading proposal failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar la propuesta")
	}

	if err := h.db.Model(&proposal).Update("is_deleted", true).Error; err != nil {
		logger.L().Error("deleting proposal failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar la propuesta")
	}

	res := &MessageResponse{}
	res.Body.OK = true
	res.Body.Msg = "Propuesta eliminada correctamente"
	return res, nil
}
