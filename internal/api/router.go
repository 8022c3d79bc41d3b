// Package api is the HTTP surface of the posting service: chi routing,
// request validation, tenant-scoped auth, and the uniform error body.
package api

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/commerce-ledger/internal/auth"
	"github.com/example/commerce-ledger/internal/posting"
	"github.com/example/commerce-ledger/internal/reports"
	"github.com/example/commerce-ledger/internal/security"
)

// Dependencies is everything the router needs. Verifier, RateLimiter and
// Auditor are optional; nil disables the corresponding middleware.
type Dependencies struct {
	Logger   *slog.Logger
	Verifier *auth.Verifier

	Poster  *posting.Poster
	Reports *reports.Service

	Auditor      Auditor
	RateLimiter  *security.RedisRateLimiter
	MaxBodyBytes int64
}

// NewRouter builds the HTTP handler. Schemas compile once here; a bad
// schema is a programming error surfaced at startup.
func NewRouter(deps Dependencies) (http.Handler, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = 1 << 20
	}

	validate, err := security.NewValidator(requestSchemas())
	if err != nil {
		return nil, err
	}

	onAuthError := func(w http.ResponseWriter, r *http.Request, status int, code string) {
		security.WriteJSONError(w, r, status, code)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(security.CorrelationID)
	r.Use(RequestLogger(deps.Logger))
	r.Use(security.BodySizeLimit(deps.MaxBodyBytes))
	if deps.Auditor != nil {
		r.Use(AuditMiddleware(deps.Auditor))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/v1", func(r chi.Router) {
		if deps.Verifier != nil {
			r.Use(auth.Authenticate(deps.Verifier, onAuthError))
		}
		if deps.RateLimiter != nil {
			r.Use(security.RateLimit(deps.RateLimiter, rateLimitKey(deps.Verifier == nil)))
		}

		write := func(r chi.Router) chi.Router {
			if deps.Verifier != nil {
				return r.With(auth.RequireScopes(onAuthError, "posting:write"))
			}
			return r
		}
		read := func(r chi.Router) chi.Router {
			if deps.Verifier != nil {
				return r.With(auth.RequireScopes(onAuthError, "reports:read"))
			}
			return r
		}

		write(r).Post("/chart/seed", handleSeedChart(deps))
		write(r).With(validate.Middleware("entry")).Post("/entries", handlePostEntry(deps))
		write(r).With(validate.Middleware("sale")).Post("/sales", handleRecordSale(deps))
		write(r).With(validate.Middleware("purchase")).Post("/purchases", handleRecordPurchase(deps))
		write(r).With(validate.Middleware("expense")).Post("/expenses", handleRecordExpense(deps))
		write(r).With(validate.Middleware("treasury")).Post("/treasury/movements", handleTreasuryMovement(deps))

		r.Route("/counts", func(r chi.Router) {
			write(r).With(validate.Middleware("count_start")).Post("/", handleStartCount(deps))
			write(r).With(validate.Middleware("count_line")).Put("/{count_id}/lines", handleRecordCountLine(deps))
			write(r).Post("/{count_id}/finalize", handleFinalizeCount(deps))
			write(r).Post("/{count_id}/cancel", handleCancelCount(deps))
		})

		r.Route("/reports", func(r chi.Router) {
			read(r).Get("/trial-balance", handleTrialBalance(deps))
			read(r).Get("/balance-sheet", handleBalanceSheet(deps))
			read(r).Get("/profit-and-loss", handleProfitAndLoss(deps))
		})
		read(r).Get("/accounts/{code}/statement", handleAccountStatement(deps))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		security.WriteJSONError(w, r, http.StatusNotFound, "not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		security.WriteJSONError(w, r, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return r, nil
}

// rateLimitKey meters traffic per authenticated tenant. The tenant header
// is honored only in dev mode without a verifier; a client must not be
// able to pick its own bucket once token auth is on, so anything
// unauthenticated falls back to the client IP.
func rateLimitKey(trustHeader bool) func(*http.Request) string {
	return func(r *http.Request) string {
		if id, ok := auth.IdentityFromContext(r.Context()); ok && id.TenantID != "" {
			return "tenant:" + id.TenantID
		}
		if trustHeader {
			if t := r.Header.Get(TenantHeader); t != "" {
				return "tenant:" + t
			}
		}
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return ""
		}
		return "ip:" + host
	}
}
