package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/incident_hub/internal/config"
	"github.com/shenikar/incident_hub/internal/metrics"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/internal/repository"
	"github.com/shenikar/incident_hub/internal/service"
	"github.com/shenikar/incident_hub/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScenarioRouter собирает полный стек поверх хранилища в памяти
func newScenarioRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics.Register()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	st := store.New(repository.NewMemoryJournal(), logger, store.Options{})
	require.NoError(t, st.Restore(context.Background()))

	svc := service.NewIncidentService(st, logger)
	handler := NewHandler(svc, logger, &config.Config{StatsDefaultHours: 24}, nil)
	return NewRouter(handler), st
}

func TestScenario_SubmitResubmitListStats(t *testing.T) {
	router, st := newScenarioRouter(t)
	payload := `{"type":"theft","location":"Market","latitude":10.29,"longitude":11.17,"idempotencyKey":"abc"}`

	// Первая отправка создает запись
	w := makeRequest(router, http.MethodPost, "/api/v1/incidents", bytes.NewBufferString(payload))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Incident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.SeverityMedium, created.Severity)
	assert.Equal(t, models.StatusActive, created.Status)

	// Повтор с тем же ключом возвращает ту же запись
	w = makeRequest(router, http.MethodPost, "/api/v1/incidents", bytes.NewBufferString(payload))
	require.Equal(t, http.StatusOK, w.Code)

	var again models.Incident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, 1, st.Len())

	// Запись видна в списке за последний час
	w = makeRequest(router, http.MethodGet, "/api/v1/incidents?hours=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.Incident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	// Статистика учитывает кражу
	w = makeRequest(router, http.MethodGet, "/api/v1/stats?hours=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.ByType["theft"])
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1.0, stats.TypeShare["theft"])
}

func TestScenario_StatusTransitions(t *testing.T) {
	router, _ := newScenarioRouter(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents",
		bytes.NewBufferString(`{"type":"banditry","location":"Bolari road","latitude":10.2937,"longitude":11.1694,"severity":"high"}`),
		map[string]string{"Idempotency-Key": "st-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var incident models.Incident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &incident))
	statusURL := "/api/v1/incidents/" + incident.ID.String() + "/status"

	w = makeRequest(router, http.MethodPatch, statusURL, bytes.NewBufferString(`{"status":"bogus"}`))
	assert.Equal(t, http.StatusConflict, w.Code)

	for i := 0; i < 2; i++ {
		w = makeRequest(router, http.MethodPatch, statusURL, bytes.NewBufferString(`{"status":"resolved"}`))
		require.Equal(t, http.StatusOK, w.Code)

		var updated models.Incident
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, models.StatusResolved, updated.Status)
	}

	w = makeRequest(router, http.MethodGet, "/api/v1/stats?hours=1", nil)
	var stats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 0, stats.Active)
}

func TestScenario_InvalidReportListsEveryField(t *testing.T) {
	router, st := newScenarioRouter(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents",
		bytes.NewBufferString(`{"type":"bogus","location":"","latitude":91,"longitude":181,"severity":"extreme"}`),
		map[string]string{"Idempotency-Key": "bad-1"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t,
		[]string{"type", "location", "latitude", "longitude", "severity"},
		fieldNames(decodeError(t, w).Fields))
	assert.Equal(t, 0, st.Len())
}

func TestScenario_AreasAndNearby(t *testing.T) {
	router, st := newScenarioRouter(t)
	_, err := st.SeedAreas(context.Background())
	require.NoError(t, err)

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents",
		bytes.NewBufferString(`{"type":"theft","location":"Bolari market","latitude":10.2937,"longitude":11.1694,"idempotencyKey":"near-1"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	w = makeRequest(router, http.MethodGet, "/api/v1/incidents/nearby?lat=10.2937&lng=11.1694&radius=100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var nearby []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nearby))
	require.Len(t, nearby, 1)
	assert.InDelta(t, 0, nearby[0]["distanceMeters"], 1e-6)

	w = makeRequest(router, http.MethodGet, "/api/v1/security-areas/nearest?lat=10.2937&lng=11.1694", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var area models.SecurityArea
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &area))
	assert.Equal(t, "Bolari", area.Name)

	w = makeRequest(router, http.MethodGet, "/api/v1/security-areas/nearest?lat=0&lng=0", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = makeRequest(router, http.MethodGet, "/api/v1/security-areas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var areas []models.SecurityArea
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &areas))
	assert.Len(t, areas, 10)
}

func TestScenario_MetricsEndpoint(t *testing.T) {
	router, _ := newScenarioRouter(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents",
		bytes.NewBufferString(`{"type":"theft","location":"Market","latitude":10.29,"longitude":11.17,"idempotencyKey":"m-1"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	w = makeRequest(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "incident_hub_ingest_reports_total")
}
