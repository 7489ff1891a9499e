package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommentHandler struct {
	db *gorm.DB
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

type ListCommentsRequest struct {
	pageParams
	DocumentID uint `query:"documento" doc:"Filter by document id"`
}

type ListCommentsResponse struct {
	Body struct {
		OK          bool             `json:"ok"`
		Comments    []models.Comment `json:"comentarios"`
		TotalItems  int64            `json:"totalItems"`
		TotalPages  int              `json:"totalPages"`
		CurrentPage int              `json:"currentPage"`
	}
}

func (h *CommentHandler) HandleList(ctx context.Context, input *ListCommentsRequest) (*ListCommentsResponse, error) {
	page, limit, offset := input.normalize()

	query := h.db.Model(&models.Comment{}).Where("is_deleted = ?", false)
	if input.DocumentID != 0 {
		query = query.Where("documento_id_documento = ?", input.DocumentID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.L().Error("counting comments failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los comentarios")
	}

	var rows []models.Comment
	if err := query.Order("fecha DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		logger.L().Error("listing comments failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los comentarios")
	}

	res := &ListCommentsResponse{}
	res.Body.OK = true
	res.Body.Comments = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}

type CreateCommentRequest struct {
	Body struct {
		Text       string `json:"comentario" required:"true"`
		DocumentID uint   `json:"DOCUMENTO_id_documento" required:"true"`
	}
}

type CommentResponse struct {
	Body struct {
		OK      bool            `json:"ok"`
		Comment *models.Comment `json:"comentario"`
	}
}

func (h *CommentHandler) HandleCreate(ctx context.Context, input *CreateCommentRequest) (*CommentResponse, error) {
	text := strings.TrimSpace(input.Body.Text)
	if text == "" {
		return nil, huma.Error400BadRequest("El comentario no puede estar vacío")
	}

	comment := models.Comment{
		Text:       text,
		DocumentID: input.Body.DocumentID,
		Date:       time.Now(),
	}
	if err := h.db.Create(&comment).Error; err != nil {
		logger.L().Error("creating comment failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al crear el comentario")
	}

	res := &CommentResponse{}
	res.Body.OK = true
	res.Body.Comment = &comment
	return res, nil
}

type UpdateCommentRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Text      *string `json:"comentario,omitempty"`
		Published *bool   `json:"publicado,omitempty"`
	}
}

func (h *CommentHandler) HandleUpdate(ctx context.Context, input *UpdateCommentRequest) (*CommentResponse, error) {
	var comment models.Comment
	err := h.db.Where("id_comentario = ? AND is_deleted = ?", input.ID, false).First(&comment).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Comentario no encontrado")
	}
	if err != nil {
		logger.L().Error("loading comment failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el comentario")
	}

	updates := map[string]any{}
	if input.Body.Text != nil {
		updates["comentario"] = *input.Body.Text
	}
	if input.Body.Published != nil {
		updates["publicado"] = *input.Body.Published
	}
	if len(updates) == 0 {
		return nil, huma.Error400BadRequest("No se enviaron campos a actualizar")
	}

	if err := h.db.Model(&comment).Updates(updates).Error; err != nil {
		logger.L().Error("updating comment failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el comentario")
	}

	res := &CommentResponse{}
	res.Body.OK = true
	res.Body.Comment = &comment
	return res, nil
}

type DeleteCommentRequest struct {
	ID uint `path:"id"`
}

func (h *CommentHandler) HandleDelete(ctx context.Context, input *DeleteCommentRequest) (*MessageResponse, error) {
	var comment models.Comment
	err := h.db.Where("id_comentario = ? AND is_deleted = ?", input.ID, false).First(&comment).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Comentario no encontrado")
	}
	if err != nil {
		logger.L().Error("loading comment failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar el comentario")
	}

	if err := h.db.Model(&comment).Update("is_deleted", true).Error; err != nil {
		logger.L().Error("deleting comment failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar el comentario")
	}

	res := &MessageResponse{}
	res.Body.OK = true
	res.Body.Msg = "Comentario eliminado correctamente"
	return res, nil
}
