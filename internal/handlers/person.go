package handlers

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PersonHandler struct {
	db *gorm.DB
}

func NewPersonHandler(db *gorm.DB) *PersonHandler {
	return &PersonHandler{db: db}
}

func lowered(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type ListPersonsRequest struct {
	pageParams
	Search       string `query:"search" doc:"Substring match over names and national id"`
	NationalID   string `query:"carnet_identidad"`
	FirstName    string `query:"nombre"`
	PaternalName string `query:"apellido_paterno"`
	MaternalName string `query:"apellido_materno"`
	BirthPlace   string `query:"lugar_nacimiento"`
	CivilStatus  string `query:"estado"`
}

type ListPersonsResponse struct {
	Body struct {
		OK          bool            `json:"ok"`
		Persons     []models.Person `json:"personas"`
		TotalItems  int64           `json:"totalItems"`
		TotalPages  int             `json:"totalPages"`
		CurrentPage int             `json:"currentPage"`
	}
}

// searchFields are the columns the free-text person search scans.
var personSearchFields = []string{
	"nombre", "apellido_paterno", "apellido_materno",
	"carnet_identidad", "lugar_nacimiento", "nombre_padre", "nombre_madre", "estado",
}

func (h *PersonHandler) applyFilters(query *gorm.DB, input *ListPersonsRequest) *gorm.DB {
	if input.Search != "" {
		pattern := "%" + lowered(input.Search) + "%"
		or := h.db.Where("LOWER("+personSearchFields[0]+") LIKE ?", pattern)
		for _, field := range personSearchFields[1:] {
			or = or.Or("LOWER("+field+") LIKE ?", pattern)
		}
		query = query.Where(or)
	}
	if input.NationalID != "" && input.Search == "" {
		query = query.Where("LOWER(carnet_identidad) LIKE ?", "%"+lowered(input.NationalID)+"%")
	}
	if input.FirstName != "" {
		query = query.Where("nombre = ?", input.FirstName)
	}
	if input.PaternalName != "" {
		query = query.Where("apellido_paterno = ?", input.PaternalName)
	}
	if input.MaternalName != "" {
		query = query.Where("apellido_materno = ?", input.MaternalName)
	}
	if input.BirthPlace != "" {
		query = query.Where("lugar_nacimiento = ?", input.BirthPlace)
	}
	if input.CivilStatus != "" {
		query = query.Where("estado = ?", input.CivilStatus)
	}
	return query
}

func (h *PersonHandler) list(all bool, input *ListPersonsRequest) (*ListPersonsResponse, error) {
	page, limit, offset := input.normalize()

	query := h.db.Model(&models.Person{})
	if !all {
		query = query.Where("activo = ?", true)
		query = h.applyFilters(query, input)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.L().Error("counting persons failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener las personas")
	}

	var rows []models.Person
	err := query.Offset(offset).Limit(limit).
		Order("apellido_paterno ASC, apellido_materno ASC, nombre ASC").
		Find(&rows).Error
	if err != nil {
		logger.L().Error("listing persons failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener las personas")
	}

	res := &ListPersonsResponse{}
	res.Body.OK = true
	res.Body.Persons = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}

func (h *PersonHandler) HandleList(ctx context.Context, input *ListPersonsRequest) (*ListPersonsResponse, error) {
	return h.list(false, input)
}

func (h *PersonHandler) HandleListAll(ctx context.Context, input *ListPersonsRequest) (*ListPersonsResponse, error) {
	return h.list(true, input)
}

type PersonBody struct {
	FirstName    string `json:"nombre" required:"true"`
	PaternalName string `json:"apellido_paterno" required:"true"`
	MaternalName string `json:"apellido_materno" required:"true"`
	NationalID   string `json:"carnet_identidad" required:"true"`
	BirthDate    string `json:"fecha_nacimiento" required:"true" doc:"YYYY-MM-DD"`
	BirthPlace   string `json:"lugar_nacimiento" required:"true"`
	FatherName   string `json:"nombre_padre" required:"true"`
	MotherName   string `json:"nombre_madre" required:"true"`
	CivilStatus  string `json:"estado" required:"true"`
}

type CreatePersonRequest struct {
	Body PersonBody
}

type PersonResponse struct {
	Body struct {
		OK     bool           `json:"ok"`
		Person *models.Person `json:"persona"`
	}
}

func (h *PersonHandler) HandleCreate(ctx context.Context, input *CreatePersonRequest) (*PersonResponse, error) {
	var existing models.Person
	err := h.db.Where("carnet_identidad = ?", input.Body.NationalID).First(&existing).Error
	if err == nil {
		return nil, huma.Error400BadRequest("El carnet de identidad ya está registrado")
	}
	if err != gorm.ErrRecordNotFound {
		logger.L().Error("checking person uniqueness failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	person := models.Person{
		FirstName:    input.Body.FirstName,
		PaternalName: input.Body.PaternalName,
		MaternalName: input.Body.MaternalName,
		NationalID:   input.Body.NationalID,
		BirthDate:    input.Body.BirthDate,
		BirthPlace:   input.Body.BirthPlace,
		FatherName:   input.Body.FatherName,
		MotherName:   input.Body.MotherName,
		CivilStatus:  input.Body.CivilStatus,
		Active:       true,
	}
	if err := h.db.Create(&person).Error; err != nil {
		logger.L().Error("creating person failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	res := &PersonResponse{}
	res.Body.OK = true
	res.Body.Person = &person
	return res, nil
}

type GetPersonRequest struct {
	ID uint `path:"id"`
}

func (h *PersonHandler) HandleGet(ctx context.Context, input *GetPersonRequest) (*PersonResponse, error) {
	var person models.Person
	err := h.db.Where("id_persona = ? AND activo = ?", input.ID, true).First(&person).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Persona no encontrada")
	}
	if err != nil {
		logger.L().Error("loading person failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al obtener persona")
	}

	res := &PersonResponse{}
	res.Body.OK = true
	res.Body.Person = &person
	return res, nil
}

type UpdatePersonRequest struct {
	ID   uint `path:"id"`
	Body struct {
		FirstName    *string `json:"nombre,omitempty"`
		PaternalName *string `json:"apellido_paterno,omitempty"`
		MaternalName *string `json:"apellido_materno,omitempty"`
		NationalID   *string `json:"carnet_identidad,omitempty"`
		BirthDate    *string `json:"fecha_nacimiento,omitempty"`
		BirthPlace   *string `json:"lugar_nacimiento,omitempty"`
		FatherName   *string `json:"nombre_padre,omitempty"`
		MotherName   *string `json:"nombre_madre,omitempty"`
		CivilStatus  *string `json:"estado,omitempty"`
		Active       *bool   `json:"activo,omitempty"`
		Priest       *bool   `json:"sacerdote,omitempty"`
	}
}

func (h *PersonHandler) HandleUpdate(ctx context.Context, input *UpdatePersonRequest) (*PersonResponse, error) {
	var person models.Person
	err := h.db.Where("id_persona = ?", input.ID).First(&person).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Persona no encontrada")
	}
	if err != nil {
		logger.L().Error("loading person failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar la persona")
	}

	if input.Body.NationalID != nil && *input.Body.NationalID != person.NationalID {
		var clash models.Person
		err := h.db.Where("carnet_identidad = ?", *input.Body.NationalID).First(&clash).Error
		if err == nil {
			return nil, huma.Error400BadRequest("El carnet de identidad ya está en uso")
		}
		if err != gorm.ErrRecordNotFound {
			logger.L().Error("checking person uniqueness failed", zap.Error(err))
			return nil, huma.Error500InternalServerError("Error al actualizar la persona")
		}
	}

	updates := map[string]any{}
	if input.Body.FirstName != nil {
		updates["nombre"] = *input.Body.FirstName
	}
	if input.Body.PaternalName != nil {
		updates["apellido_paterno"] = *input.Body.PaternalName
	}
	if input.Body.MaternalName != nil {
		updates["apellido_materno"] = *input.Body.MaternalName
	}
	if input.Body.NationalID != nil {
		updates["carnet_identidad"] = *input.Body.NationalID
	}
	if input.Body.BirthDate != nil {
		updates["fecha_nacimiento"] = *input.Body.BirthDate
	}
	if input.Body.BirthPlace != nil {
		updates["lugar_nacimiento"] = *input.Body.BirthPlace
	}
	if input.Body.FatherName != nil {
		updates["nombre_padre"] = *input.Body.FatherName
	}
	if input.Body.MotherName != nil {
		updates["nombre_madre"] = *input.Body.MotherName
	}
	if input.Body.CivilStatus != nil {
		updates["estado"] = *input.Body.CivilStatus
	}
	if input.Body.Active != nil {
		updates["activo"] = *input.Body.Active
	}
	if input.Body.Priest != nil {
		updates["sacerdote"] = *input.Body.Priest
	}
	if len(updates) == 0 {
		return nil, huma.Error400BadRequest("No se enviaron campos a actualizar")
	}

	if err := h.db.Model(&person).Updates(updates).Error; err != nil {
		logger.L().Error("updating person failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar la persona")
	}

	res := &PersonResponse{}
	res.Body.OK = true
	res.Body.Person = &person
	return res, nil
}

type DeletePersonRequest struct {
	ID uint `path:"id"`
}

func (h *PersonHandler) HandleDelete(ctx context.Context, input *DeletePersonRequest) (*MessageResponse, error) {
	var person models.Person
	err := h.db.Where("id_persona = ? AND activo = ?", input.ID, true).First(&person).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Persona no encontrada")
	}
	if err != nil {
		logger.L().Error("loading person failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar la persona")
	}

	if err := h.db.Model(&person).Update("activo", false).Error; err != nil {
		logger.L().Error("deleting person failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar la persona")
	}

	res := &MessageResponse{}
	res.Body.OK = true
	res.Body.Msg = "Persona eliminada correctamente"
	return res, nil
}
