package handlers

import (
	"context"
	"net/http"

	"syringe_rig/internal/models"
	"syringe_rig/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	genTokenToken string
	genTokenErr   error
	parseSubject  string
	parseErr      error

	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) GenerateToken(password string) (string, error) {
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseSubject, m.parseErr
}

type mockMonitoring struct {
	state models.MotionStatus
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.MotionStatus, error) {
	return m.state, m.err
}

type mockControl struct {
	requested bool
	reasons   []string
	calls     int
}

func (m *mockControl) Request(reason string) bool {
	m.calls++
	if m.requested {
		return false
	}
	m.requested = true
	m.reasons = append(m.reasons, reason)
	return true
}

type mockEventLog struct {
	resp  []models.LogRecord
	err   error
	last  service.LogFilter
	calls int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.LogRecord, error) {
	m.calls++
	m.last = f
	return m.resp, m.err
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
