package controllers

import (
	"net/http"

	"github.com/haulstead/dispatch-backend/api/responses"
	"github.com/haulstead/dispatch-backend/api/validators"
	authsvc "github.com/haulstead/dispatch-backend/internal/auth"
	pkgerrors "github.com/haulstead/dispatch-backend/pkg/errors"
	"github.com/haulstead/dispatch-backend/pkg/logger"
)

// Login authenticates staff credentials and returns an access token.
func Login(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}
