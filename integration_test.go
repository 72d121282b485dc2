package main

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/config"
	"github.com/DhananjayDev21/task-management-system/internal/models"
	"github.com/DhananjayDev21/task-management-system/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationStartup(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("DB_PATH", ":memory:")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	app, err := initializeApplication(cfg)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	assert.NotNil(t, app.TaskService, "embedded store is on by default")
	assert.Nil(t, app.Redis)
	assert.Equal(t, "http://"+cfg.GetServerAddr(), cfg.Store.URL)
}

func TestConfigurationValues(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		check    func(*config.Config) string
	}{
		{
			name:     "ENVIRONMENT environment variable",
			envVar:   "ENVIRONMENT",
			envValue: "production",
			check:    func(c *config.Config) string { return c.Server.Environment },
		},
		{
			name:     "REDIS_HOST environment variable",
			envVar:   "REDIS_HOST",
			envValue: "cache.internal",
			check:    func(c *config.Config) string { return c.Redis.Host },
		},
		{
			name:     "STORE_URL environment variable",
			envVar:   "STORE_URL",
			envValue: "http://tasks.internal:3000",
			check:    func(c *config.Config) string { return c.Store.URL },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.envValue)

			cfg, err := config.LoadConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.envValue, tt.check(cfg))
		})
	}
}

// startApplication runs the whole service on a loopback port so the views
// reach the embedded store over real HTTP.
func startApplication(t *testing.T) string {
	gin.SetMode(gin.TestMode)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", port)
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	app, err := initializeApplication(cfg)
	require.NoError(t, err)
	app.setupRoutes()

	server := httptest.NewUnstartedServer(app.Router)
	server.Listener.Close()
	server.Listener = ln
	server.Start()

	t.Cleanup(func() {
		app.closeViews()
		server.Close()
		app.cleanup()
	})
	return server.URL
}

func send(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestEndToEnd_ViewsThroughEmbeddedStore(t *testing.T) {
	base := startApplication(t)

	today := time.Now()
	task := models.Task{
		Title:     "Ship release notes",
		Status:    models.StatusInProgress,
		Priority:  models.PriorityHigh,
		Category:  "Release",
		StartDate: today.Format(models.DateLayout),
		StartTime: "09:00",
		DueDate:   today.AddDate(0, 0, 2).Format(models.DateLayout),
		DueTime:   "17:00",
		Tags:      []string{"docs"},
	}

	resp := send(t, http.MethodPost, base+"/api/v1/my-tasks", task)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	resp = send(t, http.MethodGet, base+"/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stored models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stored))
	assert.Equal(t, task.Title, stored.Title)
	assert.Equal(t, []string{"docs"}, stored.Tags)

	resp = send(t, http.MethodPost, base+"/api/v1/analytics/refresh", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var panel views.AnalyticsSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&panel))
	assert.Equal(t, 1, panel.Counts.Total)
	assert.Equal(t, 1, panel.Counts.Status.InProgress)

	resp = send(t, http.MethodPost, base+"/api/v1/insights/refresh", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chart views.InsightsSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&chart))
	assert.Equal(t, []int{0, 1, 0, 0}, chart.Chart.Series)

	resp = send(t, http.MethodDelete, base+"/api/v1/my-tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = send(t, http.MethodGet, base+"/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = send(t, http.MethodGet, base+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, http.MethodGet, base+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var metrics struct {
		StoreCalls map[string]json.RawMessage `json:"store_calls"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&metrics))
	assert.Contains(t, metrics.StoreCalls, "create task")
	assert.Contains(t, metrics.StoreCalls, "delete task")
}
