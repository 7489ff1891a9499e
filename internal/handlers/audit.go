package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuditLogHandler struct {
	db *gorm.DB
}

func NewAuditLogHandler(db *gorm.DB) *AuditLogHandler {
	return &AuditLogHandler{db: db}
}

type ListAuditRequest struct {
	pageParams
	Username string `query:"usuario" doc:"Filter by acting username"`
	Method   string `query:"metodo" doc:"Filter by HTTP method"`
}

type ListAuditResponse struct {
	Body struct {
		OK          bool                `json:"ok"`
		Entries     []models.AuditEntry `json:"auditorias"`
		TotalItems  int64               `json:"totalItems"`
		TotalPages  int                 `json:"totalPages"`
		CurrentPage int                 `json:"currentPage"`
	}
}

// HandleList pages through the request audit trail, newest first.
func (h *AuditLogHandler) HandleList(ctx context.Context, input *ListAuditRequest) (*ListAuditResponse, error) {
	page, limit, offset := input.normalize()

	query := h.db.Model(&models.AuditEntry{})
	if input.Username != "" {
		query = query.Where("username = ?", input.Username)
	}
	if input.Method != "" {
		query = query.Where("http_method = ?", input.Method)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.L().Error("counting audit entries failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener la auditoría")
	}

	var rows []models.AuditEntry
	if err := query.Order("fecha_inicio DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		logger.L().Error("listing audit entries failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener la auditoría")
	}

	res := &ListAuditResponse{}
	res.Body.OK = true
	res.Body.Entries = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}
