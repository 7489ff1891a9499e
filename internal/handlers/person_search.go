package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"github.com/miga-registro/registry-api/internal/rules"
	"go.uber.org/zap"
)

type SearchCandidatesRequest struct {
	Search   string `query:"search" doc:"Name or national-id fragment"`
	RuleKey  string `query:"rol" doc:"Sacrament type or ceremonial role to qualify for"`
	RuleKind string `query:"tipo" doc:"Which rule catalog to consult, sacramento or rol; defaults to sacramento"`
}

type SearchCandidatesResponse struct {
	Body struct {
		OK      bool            `json:"ok"`
		Persons []models.Person `json:"personas"`
	}
}

// HandleSearchCandidates finds active persons matching the search text and
// keeps only those whose full sacramental history satisfies the requested
// eligibility rule. An ineligible person is simply absent from the result,
// never an error.
func (h *PersonHandler) HandleSearchCandidates(ctx context.Context, input *SearchCandidatesRequest) (*SearchCandidatesResponse, error) {
	if input.Search == "" || input.RuleKey == "" {
		return nil, huma.Error400BadRequest("Faltan parámetros")
	}

	var catalog *rules.Catalog
	switch lowered(input.RuleKind) {
	case "", "sacramento":
		catalog = rules.Sacraments
	case "rol":
		catalog = rules.Roles
	default:
		return nil, huma.Error400BadRequest("Tipo inválido (sacramento | rol)")
	}

	rule, err := catalog.Get(input.RuleKey)
	if err != nil {
		if errors.Is(err, rules.ErrUnknownKey) {
			return nil, huma.Error400BadRequest("Rol o sacramento inválido")
		}
		logger.L().Error("rule lookup failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error en búsqueda")
	}

	pattern := "%" + lowered(input.Search) + "%"
	var candidates []models.Person
	err = h.db.
		Where("activo = ?", true).
		Where(h.db.
			Where("LOWER(nombre) LIKE ?", pattern).
			Or("LOWER(apellido_paterno) LIKE ?", pattern).
			Or("LOWER(apellido_materno) LIKE ?", pattern).
			Or("LOWER(carnet_identidad) LIKE ?", pattern)).
		Preload("Participations.Role").
		Find(&candidates).Error
	if err != nil {
		logger.L().Error("candidate search failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error en búsqueda")
	}

	eligible := make([]models.Person, 0, len(candidates))
	for _, person := range candidates {
		if rules.IsEligible(historicalRoles(person), rule) {
			person.Participations = nil
			eligible = append(eligible, person)
		}
	}

	res := &SearchCandidatesResponse{}
	res.Body.OK = true
	res.Body.Persons = eligible
	return res, nil
}

// historicalRoles collects the canonical role names a person has ever held,
// across all sacraments.
func historicalRoles(person models.Person) rules.RoleSet {
	set := make(rules.RoleSet, len(person.Participations))
	for _, p := range person.Participations {
		if p.Role != nil {
			set[rules.CanonicalRole(p.Role.Name)] = struct{}{}
		}
	}
	return set
}
