package controllers

import (
	"context"
	"net/http"

	"github.com/haulstead/dispatch-backend/api/responses"
	authsvc "github.com/haulstead/dispatch-backend/internal/auth"
	"github.com/haulstead/dispatch-backend/pkg/db/models"
	pkgerrors "github.com/haulstead/dispatch-backend/pkg/errors"
	"github.com/haulstead/dispatch-backend/pkg/logger"
)

type driverLister interface {
	ListDrivers(ctx context.Context) ([]models.User, error)
}

// ListDrivers returns active driver accounts for the assignment picker.
func ListDrivers(repo driverLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drivers, err := repo.ListDrivers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list drivers"))
			return
		}

		summaries := make([]authsvc.UserSummary, 0, len(drivers))
		for i := range drivers {
			summaries = append(summaries, authsvc.SummaryFromModel(&drivers[i]))
		}
		responses.WriteSuccess(w, summaries)
	}
}
