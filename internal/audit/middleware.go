// Package audit persists one row per handled request to the auditoria table.
package audit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/miga-registro/registry-api/internal/auth"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type correlationKey struct{}

// CorrelationHeader carries the per-request id back to clients and into the
// audit trail.
const CorrelationHeader = "X-Correlation-Id"

// Correlation assigns a uuid to every request, honoring an inbound header
// when one is supplied.
func Correlation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(CorrelationHeader, id)
		ctx := context.WithValue(r.Context(), correlationKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CorrelationID extracts the request's correlation id, empty when the
// middleware did not run.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// skipPrefixes keeps the audit trail from auditing its own read endpoint.
var skipPrefixes = []string{"/api/auditoria", "/health"}

// Middleware records method, status, timing and session identity for every
// request. Failures to persist the row are logged and never fail the request.
func Middleware(db *gorm.DB, appName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			start := time.Now()
			// Context values set downstream never reach this frame again,
			// so the token middleware reports the session through a recorder
			// planted here.
			ctx, session := auth.WithSessionRecorder(r.Context())
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))
			end := time.Now()

			entry := models.AuditEntry{
				StartedAt:     start,
				FinishedAt:    end,
				DurationMS:    float64(end.Sub(start).Milliseconds()),
				Username:      session.Email,
				HTTPMethod:    strings.ToUpper(r.Method),
				HTTPStatus:    ww.Status(),
				URL:           r.URL.RequestURI(),
				Application:   appName,
				IPAddress:     clientIP(r),
				CorrelationID: CorrelationID(ctx),
				HasException:  ww.Status() >= http.StatusInternalServerError,
				UserAgent:     r.UserAgent(),
				Message:       strings.ToUpper(r.Method) + " " + r.URL.RequestURI(),
				CreatedAt:     end,
			}
			if err := db.Create(&entry).Error; err != nil {
				logger.L().Warn("could not record audit entry", zap.Error(err))
			}
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if rip := r.Header.Get("X-Real-Ip"); rip != "" {
		return rip
	}
	return r.RemoteAddr
}
