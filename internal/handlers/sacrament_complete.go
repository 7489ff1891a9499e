package handlers

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/auth"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// completeSacramentFields is the sacrament part of the complete payload; the
// recording user always comes from the session, never from the body.
type completeSacramentFields struct {
	Date      string          `json:"fecha_sacramento" required:"true" doc:"Ceremony date, YYYY-MM-DD"`
	Folio     string          `json:"foja" required:"true"`
	Number    int             `json:"numero" required:"true"`
	TypeID    uint            `json:"tipo_sacramento_id_tipo" required:"true"`
	ParishID  uint            `json:"parroquiaId" required:"true"`
	Relations json.RawMessage `json:"relaciones" doc:"Array of {persona_id, rol_sacramento_id}; a JSON-encoded string is also accepted"`
}

type CreateCompleteRequest struct {
	Body completeSacramentFields
}

// HandleCreateComplete registers a sacrament together with its full
// participant roster in one transaction. Either everything is persisted or
// nothing is.
func (h *SacramentHandler) HandleCreateComplete(ctx context.Context, input *CreateCompleteRequest) (*SacramentResponse, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error400BadRequest("Falta el usuario registrador")
	}

	relations, err := parseRelations(input.Body.Relations)
	if err != nil {
		return nil, huma.Error400BadRequest("Las relaciones deben ser un arreglo válido")
	}

	now := time.Now()
	sacrament := models.Sacrament{
		Date:         input.Body.Date,
		RegisteredAt: now,
		LastUpdateAt: now,
		Active:       true,
		Folio:        input.Body.Folio,
		Number:       input.Body.Number,
		UserID:       userID,
		ParishID:     input.Body.ParishID,
		TypeID:       input.Body.TypeID,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sacrament).Error; err != nil {
			return err
		}
		for _, rel := range relations {
			participation := models.Participation{
				PersonID:    rel.PersonID,
				RoleID:      rel.RoleID,
				SacramentID: sacrament.ID,
			}
			if err := tx.Create(&participation).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.L().Error("complete sacrament creation failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al registrar el sacramento")
	}

	res := &SacramentResponse{}
	res.Body.OK = true
	res.Body.Sacrament = &sacrament
	return res, nil
}

type UpdateCompleteRequest struct {
	ID   uint `path:"id"`
	Body completeSacramentFields
}

// HandleUpdateComplete updates a sacrament and reconciles its participation
// rows against the incoming relations, keyed by role: a changed person is
// re-pointed in place, a new role is inserted, a role missing from the
// payload is removed. One participant per role per sacrament is assumed.
func (h *SacramentHandler) HandleUpdateComplete(ctx context.Context, input *UpdateCompleteRequest) (*SacramentResponse, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error400BadRequest("Falta el usuario registrador")
	}

	relations, err := parseRelations(input.Body.Relations)
	if err != nil {
		return nil, huma.Error400BadRequest("Las relaciones deben ser un arreglo válido")
	}

	var sacrament models.Sacrament
	err = h.db.Where("id_sacramento = ? AND activo = ?", input.ID, true).First(&sacrament).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Sacramento no encontrado")
	}
	if err != nil {
		logger.L().Error("loading sacrament failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el sacramento")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"fecha_sacramento":                   input.Body.Date,
			"foja":                               input.Body.Folio,
			"numero":                             input.Body.Number,
			"tipo_sacramento_id_tipo":            input.Body.TypeID,
			"institucion_parroquia_id_parroquia": input.Body.ParishID,
			"usuario_id_usuario":                 userID,
			"fecha_actualizacion":                time.Now(),
		}
		if err := tx.Model(&sacrament).Updates(updates).Error; err != nil {
			return err
		}

		var current []models.Participation
		if err := tx.Where("sacramento_id_sacramento = ?", sacrament.ID).Find(&current).Error; err != nil {
			return err
		}
		byRole := make(map[uint]models.Participation, len(current))
		for _, p := range current {
			byRole[p.RoleID] = p
		}

		incomingRoles := make(map[uint]struct{}, len(relations))
		for _, rel := range relations {
			incomingRoles[rel.RoleID] = struct{}{}

			existing, found := byRole[rel.RoleID]
			if found {
				if existing.PersonID != rel.PersonID {
					err := tx.Model(&models.Participation{}).
						Where("id_persona_sacramento = ?", existing.ID).
						Update("persona_id_persona", rel.PersonID).Error
					if err != nil {
						return err
					}
				}
				continue
			}

			participation := models.Participation{
				PersonID:    rel.PersonID,
				RoleID:      rel.RoleID,
				SacramentID: sacrament.ID,
			}
			if err := tx.Create(&participation).Error; err != nil {
				return err
			}
		}

		// Roles omitted from the payload are removed from the sacrament.
		for roleID, p := range byRole {
			if _, kept := incomingRoles[roleID]; kept {
				continue
			}
			if err := tx.Delete(&models.Participation{}, p.ID).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		logger.L().Error("complete sacrament update failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el sacramento")
	}

	res := &SacramentResponse{}
	res.Body.OK = true
	res.Body.Sacrament = &sacrament
	return res, nil
}

// ParticipantDetail is the flat per-participant record the edit form consumes.
type ParticipantDetail struct {
	ParticipationID uint   `json:"id_persona_sacramento"`
	PersonID        uint   `json:"persona_id"`
	FullName        string `json:"nombre_completo"`
	NationalID      string `json:"carnet_identidad"`
	RoleID          uint   `json:"rol_id"`
	RoleName        string `json:"rol_nombre"`
}

type GetCompleteRequest struct {
	ID uint `path:"id"`
}

type GetCompleteResponse struct {
	Body struct {
		OK           bool                `json:"ok"`
		Sacrament    *models.Sacrament   `json:"sacramento"`
		Participants []ParticipantDetail `json:"participantes"`
	}
}

// HandleGetComplete loads a sacrament with every association, shaped for the
// edit form. A participant who is also the recording user is not listed.
func (h *SacramentHandler) HandleGetComplete(ctx context.Context, input *GetCompleteRequest) (*GetCompleteResponse, error) {
	var sacrament models.Sacrament
	err := h.db.
		Preload("Parish").
		Preload("Type").
		Preload("User").
		Preload("Participations.Person").
		Preload("Participations.Role").
		Where("id_sacramento = ? AND activo = ?", input.ID, true).
		First(&sacrament).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Sacramento no encontrado")
	}
	if err != nil {
		logger.L().Error("loading complete sacrament failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al obtener sacramento")
	}

	participants := flattenParticipants(sacrament)
	sacrament.Participations = nil

	res := &GetCompleteResponse{}
	res.Body.OK = true
	res.Body.Sacrament = &sacrament
	res.Body.Participants = participants
	return res, nil
}

func flattenParticipants(sacrament models.Sacrament) []ParticipantDetail {
	participants := make([]ParticipantDetail, 0, len(sacrament.Participations))
	for _, p := range sacrament.Participations {
		if p.PersonID == sacrament.UserID {
			continue
		}
		detail := ParticipantDetail{
			ParticipationID: p.ID,
			PersonID:        p.PersonID,
			RoleID:          p.RoleID,
		}
		if p.Person != nil {
			detail.FullName = p.Person.FullName()
			detail.NationalID = p.Person.NationalID
		}
		if p.Role != nil {
			detail.RoleName = p.Role.Name
		}
		participants = append(participants, detail)
	}
	return participants
}

type SearchByPersonRequest struct {
	Search string `query:"search" doc:"Participant name or national id fragment"`
	pageParams
}

// SacramentMatch pairs a sacrament with the participants that matched the
// search term.
type SacramentMatch struct {
	Sacrament    models.Sacrament    `json:"sacramento"`
	Participants []ParticipantDetail `json:"participantes"`
}

type SearchByPersonResponse struct {
	Body struct {
		OK          bool             `json:"ok"`
		Results     []SacramentMatch `json:"resultados"`
		TotalItems  int              `json:"totalItems"`
		TotalPages  int              `json:"totalPages"`
		CurrentPage int              `json:"currentPage"`
	}
}

// HandleSearchByPerson finds active sacraments by participant attributes. A
// sacrament whose matched participant is also its recording user is dropped
// before pagination, so the reported totals reflect the filtered set.
func (h *SacramentHandler) HandleSearchByPerson(ctx context.Context, input *SearchByPersonRequest) (*SearchByPersonResponse, error) {
	if input.Search == "" {
		return nil, huma.Error400BadRequest("Faltan parámetros")
	}
	page, limit, _ := input.normalize()

	pattern := "%" + lowered(input.Search) + "%"
	var participations []models.Participation
	err := h.db.
		Joins("JOIN persona ON persona.id_persona = persona_sacramento.persona_id_persona").
		Where("persona.activo = ?", true).
		Where(h.db.
			Where("LOWER(persona.nombre) LIKE ?", pattern).
			Or("LOWER(persona.apellido_paterno) LIKE ?", pattern).
			Or("LOWER(persona.apellido_materno) LIKE ?", pattern).
			Or("LOWER(persona.carnet_identidad) LIKE ?", pattern)).
		Preload("Person").
		Preload("Role").
		Preload("Sacrament").
		Preload("Sacrament.Type").
		Preload("Sacrament.Parish").
		Find(&participations).Error
	if err != nil {
		logger.L().Error("searching sacraments by person failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error en búsqueda")
	}

	grouped := make(map[uint]*SacramentMatch)
	for _, p := range participations {
		if p.Sacrament == nil || !p.Sacrament.Active {
			continue
		}
		match, ok := grouped[p.SacramentID]
		if !ok {
			sacrament := *p.Sacrament
			sacrament.Participations = nil
			match = &SacramentMatch{Sacrament: sacrament}
			grouped[p.SacramentID] = match
		}
		detail := ParticipantDetail{
			ParticipationID: p.ID,
			PersonID:        p.PersonID,
			RoleID:          p.RoleID,
		}
		if p.Person != nil {
			detail.FullName = p.Person.FullName()
			detail.NationalID = p.Person.NationalID
		}
		if p.Role != nil {
			detail.RoleName = p.Role.Name
		}
		match.Participants = append(match.Participants, detail)
	}

	// Self-match exclusion: a matched participant must not be the sacrament's
	// recording user. Applied over the full candidate set, before pagination.
	filtered := make([]SacramentMatch, 0, len(grouped))
	for _, match := range grouped {
		self := false
		for _, participant := range match.Participants {
			if participant.PersonID == match.Sacrament.UserID {
				self = true
				break
			}
		}
		if !self {
			filtered = append(filtered, *match)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Sacrament.ID < filtered[j].Sacrament.ID
	})

	total := len(filtered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	res := &SearchByPersonResponse{}
	res.Body.OK = true
	res.Body.Results = filtered[start:end]
	res.Body.TotalItems = total
	res.Body.TotalPages = totalPages(int64(total), limit)
	res.Body.CurrentPage = page
	return res, nil
}
