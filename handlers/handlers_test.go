package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/securecomm/backend/models"
	"github.com/securecomm/backend/services"
	"github.com/securecomm/backend/session"
	"github.com/securecomm/backend/source"
	"github.com/securecomm/backend/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store, *services.Poller) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(20)
	sessions := session.NewStore([]byte("test-secret"), 0)
	require.NoError(t, sessions.SeedDemoUsers())
	poller := services.NewPoller(source.NewSimSource(1), st, zap.NewNop(), services.PollerConfig{
		MessageInterval: -1,
	})
	t.Cleanup(poller.Stop)
	Init(st, poller, sessions, zap.NewNop())

	router := gin.New()
	api := router.Group("/api")
	api.POST("/auth/login", Login)
	authed := api.Group("", AuthMiddleware())
	authed.POST("/auth/logout", Logout)
	authed.GET("/auth/me", Me)
	views := authed.Group("", ReadyGuard())
	views.GET("/overview", GetOverview)
	views.GET("/vehicles", GetVehicles)
	views.GET("/messages", GetMessages)
	views.GET("/alerts", GetAlerts)
	views.PATCH("/alerts/:id/resolve", ResolveAlert)
	views.GET("/topology", GetTopology)
	views.GET("/security/summary", GetSecuritySummary)
	views.GET("/analytics", GetAnalytics)
	views.GET("/export", ExportData)
	return router, st, poller
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func waitReady(t *testing.T, poller *services.Poller) {
	t.Helper()
	require.Eventually(t, func() bool {
		return poller.State() == services.StateReady
	}, 2*time.Second, 10*time.Millisecond, "poller never became ready")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/vehicles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set("Authorization", "NotBearer xyz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = doJSON(router, http.MethodGet, "/api/vehicles", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFirstLoginStartsLoad(t *testing.T) {
	router, st, poller := newTestRouter(t)
	require.Equal(t, services.StateIdle, poller.State())

	token := login(t, router, "admin", "password123")
	waitReady(t, poller)

	w := doJSON(router, http.MethodGet, "/api/vehicles", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total    int              `json:"total"`
		Vehicles []models.Vehicle `json:"vehicles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 24, resp.Total)
	assert.Len(t, st.Vehicles(), 24)
}

func TestReadyGuardAnswers503BeforeLoad(t *testing.T) {
	router, _, poller := newTestRouter(t)

	token := login(t, router, "admin", "password123")
	waitReady(t, poller)
	poller.Stop()
	require.Equal(t, services.StateIdle, poller.State())

	w := doJSON(router, http.MethodGet, "/api/overview", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "loading")
}

func TestConcurrentLoginsStartPolling(t *testing.T) {
	router, _, poller := newTestRouter(t)

	// both logins race; whichever lands first, exactly one load must start
	codes := make(chan int, 2)
	for _, username := range []string{"admin", "operator"} {
		go func(username string) {
			w := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
				"username": username, "password": "password123",
			})
			codes <- w.Code
		}(username)
	}
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, <-codes)
	}

	waitReady(t, poller)
}

func TestLastLogoutStopsPolling(t *testing.T) {
	router, _, poller := newTestRouter(t)

	t1 := login(t, router, "admin", "password123")
	t2 := login(t, router, "operator", "password123")
	waitReady(t, poller)

	w := doJSON(router, http.MethodPost, "/api/auth/logout", t1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.StateReady, poller.State(), "a remaining session keeps polling alive")

	w = doJSON(router, http.MethodPost, "/api/auth/logout", t2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Eventually(t, func() bool {
		return poller.State() == services.StateIdle
	}, 2*time.Second, 10*time.Millisecond)

	// the invalidated token no longer opens anything
	w = doJSON(router, http.MethodGet, "/api/auth/me", t2, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResolveAlertEndpoint(t *testing.T) {
	router, st, poller := newTestRouter(t)
	token := login(t, router, "admin", "password123")
	waitReady(t, poller)

	alerts := st.Alerts()
	require.NotEmpty(t, alerts)
	id := alerts[0].ID

	w := doJSON(router, http.MethodPatch, "/api/alerts/"+id+"/resolve", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, st.Alerts()[0].Resolved)

	w = doJSON(router, http.MethodPatch, "/api/alerts/no-such-alert/resolve", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOverviewShape(t *testing.T) {
	router, _, poller := newTestRouter(t)
	token := login(t, router, "admin", "password123")
	waitReady(t, poller)

	w := doJSON(router, http.MethodGet, "/api/overview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, key := range []string{"onlineVehicles", "activeNodes", "messages", "criticalAlerts", "state"} {
		assert.Contains(t, resp, key)
	}
	assert.Equal(t, "ready", resp["state"])
}

func TestExportDocument(t *testing.T) {
	router, _, poller := newTestRouter(t)
	token := login(t, router, "admin", "password123")
	waitReady(t, poller)

	w := doJSON(router, http.MethodGet, "/api/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=vehicle-communication-data-")

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "SecureComm Platform", doc.Platform)
	assert.NotEmpty(t, doc.ExportID)
	assert.Len(t, doc.Vehicles, 24)
	assert.Len(t, doc.Nodes, 12)
	assert.Len(t, doc.Analytics.HourlyTraffic, 24)
}

func TestAnalyticsEndpointShape(t *testing.T) {
	router, _, poller := newTestRouter(t)
	token := login(t, router, "admin", "password123")
	waitReady(t, poller)

	w := doJSON(router, http.MethodGet, "/api/analytics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap services.AnalyticsSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Len(t, snap.HourlyTraffic, 24)
	assert.GreaterOrEqual(t, len(snap.MessageTypeDistribution), 4)
	assert.Len(t, snap.SecurityMetrics, 3)
}
