package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/miga-registro/registry-api/internal/auth"
	"github.com/miga-registro/registry-api/internal/config"
	"github.com/miga-registro/registry-api/internal/models"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*chi.Mux, *gorm.DB, *auth.AuthHandler) {
	t.Helper()
	db := openTestDB(t)
	cfg := &config.Config{AppName: "Sacramentos", JWTSecret: "test-secret"}
	authHandler := auth.NewAuthHandler(cfg, db)
	h := &Handlers{
		Auth:           authHandler,
		Users:          NewUserHandler(db, authHandler),
		Persons:        NewPersonHandler(db),
		Sacraments:     NewSacramentHandler(db),
		Types:          NewSacramentTypeHandler(db),
		Roles:          NewCeremonialRoleHandler(db),
		Parishes:       NewParishHandler(db),
		Participations: NewParticipationHandler(db),
		Marriages:      NewMarriageDetailHandler(db),
		Proposals:      NewProposalHandler(db, nil),
		Comments:       NewCommentHandler(db),
		Password:       NewPasswordHandler(db, nil, "http://localhost:4200/reset", 30),
		Audit:          NewAuditLogHandler(db),
	}
	r := chi.NewRouter()
	RegisterRoutes(r, db, cfg, h)
	return r, db, authHandler
}

func serve(r *chi.Mux, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("x-token", token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	r, _, _ := newTestServer(t)

	rr := serve(r, "GET", "/api/personas", "", "")

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without a token, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok":false`) {
		t.Errorf("expected the error envelope, got %s", rr.Body.String())
	}
}

func TestProtectedRoutesRejectInvalidTokens(t *testing.T) {
	r, _, _ := newTestServer(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":    float64(1),
		"correo": "lucia@parroquia.test",
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte("test-secret"))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":    float64(1),
		"correo": "lucia@parroquia.test",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	foreignString, _ := foreign.SignedString([]byte("otro-secreto"))

	for name, token := range map[string]string{
		"Expired":     expiredString,
		"WrongSecret": foreignString,
	} {
		t.Run(name, func(t *testing.T) {
			rr := serve(r, "GET", "/api/personas", "", token)
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rr.Code)
			}
		})
	}
}

func TestProtectedRoutesAcceptValidToken(t *testing.T) {
	r, db, authHandler := newTestServer(t)
	operator := seedOperator(t, db)

	token, err := authHandler.GenerateToken(operator.ID, operator.Email)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	rr := serve(r, "GET", "/api/personas", "", token)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 with a valid token, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateCompleteOverHTTPUsesSessionUser(t *testing.T) {
	r, db, authHandler := newTestServer(t)
	operator := seedOperator(t, db)
	parish := seedParish(t, db)
	person := seedPerson(t, db, "Ana", "Garcia", "1111111")

	token, err := authHandler.GenerateToken(operator.ID, operator.Email)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	body := `{"fecha_sacramento":"2024-03-10","foja":"12","numero":5,` +
		`"tipo_sacramento_id_tipo":1,"parroquiaId":` + strconv.Itoa(int(parish.ID)) + `,` +
		`"relaciones":[{"persona_id":` + strconv.Itoa(int(person.ID)) + `,"rol_sacramento_id":1}]}`
	rr := serve(r, "POST", "/api/sacramentos/completo", body, token)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var sacrament models.Sacrament
	if err := db.First(&sacrament).Error; err != nil {
		t.Fatalf("expected a persisted sacrament: %v", err)
	}
	if sacrament.UserID != operator.ID {
		t.Errorf("expected recording user %d from the session, got %d", operator.ID, sacrament.UserID)
	}

	var participations int64
	db.Model(&models.Participation{}).Count(&participations)
	if participations != 1 {
		t.Errorf("expected 1 participation, got %d", participations)
	}
}

func TestPublicRoutesSkipTokenCheck(t *testing.T) {
	r, db, _ := newTestServer(t)
	seedOperator(t, db)

	t.Run("Login", func(t *testing.T) {
		body := `{"correo":"nadie@parroquia.test","password":"clave-equivocada"}`
		rr := serve(r, "POST", "/api/usuarios/login", body, "")
		if rr.Code == http.StatusUnauthorized {
			t.Fatalf("login must not require a token, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("Health", func(t *testing.T) {
		rr := serve(r, "GET", "/health", "", "")
		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rr.Code)
		}
	})
}

func TestAuditTrailRecordsSessionUser(t *testing.T) {
	r, db, authHandler := newTestServer(t)
	operator := seedOperator(t, db)

	token, err := authHandler.GenerateToken(operator.ID, operator.Email)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	rr := serve(r, "GET", "/api/personas", "", token)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var entry models.AuditEntry
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("expected an audit row: %v", err)
	}
	if entry.Username != operator.Email {
		t.Errorf("expected audited username %q, got %q", operator.Email, entry.Username)
	}
	if entry.HTTPMethod != "GET" || entry.HTTPStatus != http.StatusOK {
		t.Errorf("unexpected audited request: %s %d", entry.HTTPMethod, entry.HTTPStatus)
	}
}
