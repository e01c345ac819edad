package handlers

import (
	"context"
	"net/http"

	"lightswitch/internal/models"
	"lightswitch/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	enabled       bool
	genTokenToken string
	genTokenErr   error
	parseSubject  string
	parseErr      error

	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) Enabled() bool { return m.enabled }

func (m *mockAuth) GenerateToken(password string) (string, error) {
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseSubject, m.parseErr
}

type mockHistory struct {
	status    models.SchedulerStatus
	statusErr error
	events    []models.SwitchEvent
	listErr   error

	lastFilter service.EventFilter
	listCalls  int
}

func (m *mockHistory) Record(ctx context.Context, r models.TickReport) error { return nil }

func (m *mockHistory) Status(ctx context.Context) (models.SchedulerStatus, error) {
	return m.status, m.statusErr
}

func (m *mockHistory) List(ctx context.Context, f service.EventFilter) ([]models.SwitchEvent, error) {
	m.listCalls++
	m.lastFilter = f
	return m.events, m.listErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withHeader(req *http.Request, hdr http.Header) *http.Request {
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
