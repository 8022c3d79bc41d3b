package api

import (
	"net/http"

	"github.com/example/commerce-ledger/internal/auth"
	"github.com/example/commerce-ledger/internal/security"
	"github.com/example/commerce-ledger/pkg/audit"
)

// Auditor receives one event per mutating request.
type Auditor interface {
	Append(e audit.Event) *audit.Record
}

// AuditMiddleware records every state-changing request against the audit
// trail. Reads are not audited.
func AuditMiddleware(a Auditor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)

			e := audit.Event{
				Action:        r.Method + " " + r.URL.Path,
				CorrelationID: security.CorrelationIDFromContext(r.Context()),
			}
			if id, ok := auth.IdentityFromContext(r.Context()); ok {
				e.TenantID = id.TenantID
				e.Actor = id.Subject
			}
			a.Append(e)
		})
	}
}
