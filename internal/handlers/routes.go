package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/miga-registro/registry-api/internal/audit"
	"github.com/miga-registro/registry-api/internal/auth"
	"github.com/miga-registro/registry-api/internal/config"
	"gorm.io/gorm"
)

// Handlers bundles every endpoint group for route registration.
type Handlers struct {
	Auth           *auth.AuthHandler
	Users          *UserHandler
	Persons        *PersonHandler
	Sacraments     *SacramentHandler
	Types          *SacramentTypeHandler
	Roles          *CeremonialRoleHandler
	Parishes       *ParishHandler
	Participations *ParticipationHandler
	Marriages      *MarriageDetailHandler
	Proposals      *ProposalHandler
	Comments       *CommentHandler
	Password       *PasswordHandler
	Audit          *AuditLogHandler
}

func created(o *huma.Operation) {
	o.DefaultStatus = http.StatusCreated
}

func tokenAuth(o *huma.Operation) {
	o.Security = []map[string][]string{{auth.TokenScheme: {}}}
}

func RegisterRoutes(r *chi.Mux, db *gorm.DB, cfg *config.Config, h *Handlers) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(audit.Correlation)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "x-token"},
			ExposedHeaders:   []string{audit.CorrelationHeader},
			AllowCredentials: false,
		}))
	}
	r.Use(audit.Middleware(db, cfg.AppName))

	humaConfig := huma.DefaultConfig("MIGA Registry API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		auth.TokenScheme: {
			Type: "apiKey",
			In:   "header",
			Name: "x-token",
		},
	}
	api := humachi.New(r, humaConfig)
	api.UseMiddleware(h.Auth.RequireToken(api))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Public routes
	huma.Post(api, "/api/usuarios/login", h.Auth.HandleLogin)
	huma.Post(api, "/api/usuarios", h.Users.HandleCreate, created)
	huma.Post(api, "/api/password/solicitar", h.Password.HandleRequest)
	huma.Get(api, "/api/password/validar", h.Password.HandleValidate)
	huma.Post(api, "/api/password/cambiar", h.Password.HandleChange)
	huma.Post(api, "/api/propuestas", h.Proposals.HandleCreate, created)
	huma.Post(api, "/api/comentarios", h.Comments.HandleCreate, created)

	// Protected routes. Enforcement happens in RequireToken, keyed off the
	// tokenAuth security scheme each operation declares.
	huma.Get(api, "/api/usuarios/renew", h.Auth.HandleRenew, tokenAuth)

	huma.Get(api, "/api/usuarios", h.Users.HandleList, tokenAuth)
	huma.Get(api, "/api/usuarios/all", h.Users.HandleListAll, tokenAuth)
	huma.Put(api, "/api/usuarios/{id}", h.Users.HandleUpdate, tokenAuth)
	huma.Delete(api, "/api/usuarios/{id}", h.Users.HandleDelete, tokenAuth)

	huma.Get(api, "/api/personas", h.Persons.HandleList, tokenAuth)
	huma.Get(api, "/api/personas/all", h.Persons.HandleListAll, tokenAuth)
	huma.Get(api, "/api/personas/buscar-sacramento", h.Persons.HandleSearchCandidates, tokenAuth)
	huma.Get(api, "/api/personas/{id}", h.Persons.HandleGet, tokenAuth)
	huma.Post(api, "/api/personas", h.Persons.HandleCreate, created, tokenAuth)
	huma.Put(api, "/api/personas/{id}", h.Persons.HandleUpdate, tokenAuth)
	huma.Delete(api, "/api/personas/{id}", h.Persons.HandleDelete, tokenAuth)

	huma.Get(api, "/api/sacramentos", h.Sacraments.HandleList, tokenAuth)
	huma.Get(api, "/api/sacramentos/all", h.Sacraments.HandleListAll, tokenAuth)
	huma.Get(api, "/api/sacramentos/buscar-persona", h.Sacraments.HandleSearchByPerson, tokenAuth)
	huma.Post(api, "/api/sacramentos/completo", h.Sacraments.HandleCreateComplete, created, tokenAuth)
	huma.Get(api, "/api/sacramentos/completo/{id}", h.Sacraments.HandleGetComplete, tokenAuth)
	huma.Put(api, "/api/sacramentos/completo/{id}", h.Sacraments.HandleUpdateComplete, tokenAuth)
	huma.Get(api, "/api/sacramentos/{id}", h.Sacraments.HandleGet, tokenAuth)
	huma.Post(api, "/api/sacramentos", h.Sacraments.HandleCreate, created, tokenAuth)
	huma.Put(api, "/api/sacramentos/{id}", h.Sacraments.HandleUpdate, tokenAuth)
	huma.Delete(api, "/api/sacramentos/{id}", h.Sacraments.HandleDelete, tokenAuth)

	huma.Get(api, "/api/tipos-sacramento", h.Types.HandleList, tokenAuth)
	huma.Get(api, "/api/tipos-sacramento/{id}", h.Types.HandleGet, tokenAuth)
	huma.Post(api, "/api/tipos-sacramento", h.Types.HandleCreate, created, tokenAuth)
	huma.Put(api, "/api/tipos-sacramento/{id}", h.Types.HandleUpdate, tokenAuth)
	huma.Delete(api, "/api/tipos-sacramento/{id}", h.Types.HandleDelete, tokenAuth)

	huma.Get(api, "/api/roles-sacramento", h.Roles.HandleList, tokenAuth)
	huma.Get(api, "/api/roles-sacramento/{id}", h.Roles.HandleGet, tokenAuth)
	huma.Post(api, "/api/roles-sacramento", h.Roles.HandleCreate, created, tokenAuth)
	huma.Put(api, "/api/roles-sacramento/{id}", h.Roles.HandleUpdate, tokenAuth)

	huma.Get(api, "/api/parroquias", h.Parishes.HandleList, tokenAuth)
	huma.Get(api, "/api/parroquias/{id}", h.Parishes.HandleGet, tokenAuth)
	huma.Post(api, "/api/parroquias", h.Parishes.HandleCreate, created, tokenAuth)
	huma.Put(api, "/api/parroquias/{id}", h.Parishes.HandleUpdate, tokenAuth)

	huma.Get(api, "/api/participaciones", h.Participations.HandleList, tokenAuth)
	huma.Post(api, "/api/participaciones", h.Participations.HandleCreate, created, tokenAuth)
	huma.Get(api, "/api/participaciones/sacramento/{sacramentoId}", h.Participations.HandleBySacrament, tokenAuth)
	huma.Get(api, "/api/participaciones/persona/{personaId}", h.Participations.HandleByPerson, tokenAuth)

	huma.Get(api, "/api/matrimonios", h.Marriages.HandleList, tokenAuth)
	huma.Get(api, "/api/matrimonios/{id}", h.Marriages.HandleGet, tokenAuth)
	huma.Post(api, "/api/matrimonios", h.Marriages.HandleCreate, created, tokenAuth)
	huma.Put(api, "/api/matrimonios/{id}", h.Marriages.HandleUpdate, tokenAuth)

	huma.Get(api, "/api/propuestas", h.Proposals.HandleList, tokenAuth)
	huma.Get(api, "/api/propuestas/{id}", h.Proposals.HandleGet, tokenAuth)
	huma.Put(api, "/api/propuestas/{id}", h.Proposals.HandleUpdate, tokenAuth)
	huma.Delete(api, "/api/propuestas/{id}", h.Proposals.HandleDelete, tokenAuth)

	huma.Get(api, "/api/comentarios", h.Comments.HandleList, tokenAuth)
	huma.Put(api, "/api/comentarios/{id}", h.Comments.HandleUpdate, tokenAuth)
	huma.Delete(api, "/api/comentarios/{id}", h.Comments.HandleDelete, tokenAuth)

	huma.Get(api, "/api/auditoria", h.Audit.HandleList, tokenAuth)
}
