package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobsvc "github.com/haulstead/dispatch-backend/internal/jobs"
	pkgauth "github.com/haulstead/dispatch-backend/pkg/auth"
	"github.com/haulstead/dispatch-backend/pkg/config"
	"github.com/haulstead/dispatch-backend/pkg/enums"
	"github.com/haulstead/dispatch-backend/pkg/logger"
)

type stubJobService struct {
	lastActor jobsvc.Actor
}

func (s *stubJobService) Create(_ context.Context, _ jobsvc.CreateJobInput, actor jobsvc.Actor) (*jobsvc.JobDetail, error) {
	s.lastActor = actor
	return &jobsvc.JobDetail{}, nil
}

func (s *stubJobService) Get(_ context.Context, _ uuid.UUID, actor jobsvc.Actor) (*jobsvc.JobDetail, error) {
	s.lastActor = actor
	return &jobsvc.JobDetail{}, nil
}

func (s *stubJobService) List(_ context.Context, _ jobsvc.Filters, actor jobsvc.Actor) ([]jobsvc.JobDetail, error) {
	s.lastActor = actor
	return nil, nil
}

func (s *stubJobService) ListForDriver(context.Context, uuid.UUID) ([]jobsvc.JobDetail, error) {
	return nil, nil
}

func (s *stubJobService) Update(_ context.Context, _ uuid.UUID, _ jobsvc.UpdateJobInput, actor jobsvc.Actor) (*jobsvc.JobDetail, error) {
	s.lastActor = actor
	return &jobsvc.JobDetail{}, nil
}

func (s *stubJobService) Delete(_ context.Context, _ uuid.UUID, actor jobsvc.Actor) error {
	s.lastActor = actor
	return nil
}

func testRouter(t *testing.T) (http.Handler, *stubJobService, config.JWTConfig) {
	t.Helper()

	jwtCfg := config.JWTConfig{
		Secret:            "router-test-secret",
		Issuer:            "hauler-dispatch",
		ExpirationMinutes: 15,
	}
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: jwtCfg,
	}
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	jobs := &stubJobService{}

	handler := NewRouter(Deps{
		Config:     cfg,
		Logger:     logg,
		JobService: jobs,
	})
	return handler, jobs, jwtCfg
}

func mintToken(t *testing.T, cfg config.JWTConfig, role enums.UserRole) (string, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		Name:   "Route Tester",
	})
	require.NoError(t, err)
	return token, userID
}

func doRequest(handler http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthLive(t *testing.T) {
	handler, _, _ := testRouter(t)

	rec := doRequest(handler, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-HaulDispatch-Env"))
}

func TestRouter_RejectsMissingAndInvalidTokens(t *testing.T) {
	handler, _, _ := testRouter(t)

	rec := doRequest(handler, http.MethodGet, "/api/v1/jobs", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(handler, http.MethodGet, "/api/v1/jobs", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_JobRoleGates(t *testing.T) {
	handler, jobs, jwtCfg := testRouter(t)

	officeToken, officeID := mintToken(t, jwtCfg, enums.UserRoleOffice)
	driverToken, _ := mintToken(t, jwtCfg, enums.UserRoleDriver)

	body := `{"customer_name":"Hilltop","address":"14 Ridge Rd","delivery_date":"2026-09-14T00:00:00Z","products":[{"product_name":"Topsoil","quantity":"3","unit":"yard"}]}`

	rec := doRequest(handler, http.MethodPost, "/api/v1/jobs", driverToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(handler, http.MethodPost, "/api/v1/jobs", officeToken, body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, officeID, jobs.lastActor.UserID)
	assert.Equal(t, enums.UserRoleOffice, jobs.lastActor.Role)

	rec = doRequest(handler, http.MethodDelete, "/api/v1/jobs/"+uuid.NewString(), driverToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_DriverJobsRequiresDriverRole(t *testing.T) {
	handler, _, jwtCfg := testRouter(t)

	officeToken, _ := mintToken(t, jwtCfg, enums.UserRoleOffice)
	driverToken, _ := mintToken(t, jwtCfg, enums.UserRoleDriver)

	rec := doRequest(handler, http.MethodGet, "/api/v1/driver/jobs", officeToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(handler, http.MethodGet, "/api/v1/driver/jobs", driverToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_InvalidStatusFilterIsValidationError(t *testing.T) {
	handler, _, jwtCfg := testRouter(t)

	officeToken, _ := mintToken(t, jwtCfg, enums.UserRoleOffice)
	rec := doRequest(handler, http.MethodGet, "/api/v1/jobs?status=bogus", officeToken, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
