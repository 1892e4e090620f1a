package middleware

import (
	"net/http"

	"github.com/haulstead/dispatch-backend/api/responses"
	"github.com/haulstead/dispatch-backend/pkg/enums"
	pkgerrors "github.com/haulstead/dispatch-backend/pkg/errors"
	"github.com/haulstead/dispatch-backend/pkg/logger"
)

// RequireAnyRole rejects requests whose authenticated role is not in the set.
func RequireAnyRole(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[enums.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[RoleFromContext(r.Context())]; !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff admits admin and office roles.
func RequireStaff(logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireAnyRole(logg, enums.UserRoleAdmin, enums.UserRoleOffice)
}
