package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/config"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/internal/service"
	"github.com/shenikar/incident_hub/internal/store"
	"github.com/shenikar/incident_hub/pkg/e"
	appvalidator "github.com/shenikar/incident_hub/pkg/validator"
	"github.com/sirupsen/logrus"
)

const idempotencyHeader = "Idempotency-Key"

// LiveFeed обслуживает websocket-подписчиков живой ленты
type LiveFeed interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

type Handler struct {
	incidentService service.IncidentService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
	live            LiveFeed
}

// NewHandler создает обработчики API; live может быть nil, тогда маршрут ленты не регистрируется
func NewHandler(incidentService service.IncidentService, logger *logrus.Logger, cfg *config.Config, live LiveFeed) *Handler {
	return &Handler{
		incidentService: incidentService,
		logger:          logger,
		validate:        appvalidator.New(),
		cfg:             cfg,
		live:            live,
	}
}

// respondError переводит таксономию ошибок в HTTP-коды
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	var ve *e.ValidationError
	switch {
	case errors.As(err, &ve):
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: e.ErrValidation.Error(), Fields: ve.Fields})
	case errors.Is(err, e.ErrValidation):
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, e.ErrNotFound):
		log.WithError(err).Warn("Resource not found")
		c.JSON(http.StatusNotFound, ErrorResponse{Error: e.ErrNotFound.Error()})
	case errors.Is(err, e.ErrInvalidTransition):
		log.WithError(err).Warn("Invalid status transition")
		c.JSON(http.StatusConflict, ErrorResponse{Error: e.ErrInvalidTransition.Error()})
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// bindQuery разбирает и проверяет параметры запроса; false означает, что ответ уже отправлен
func (h *Handler) bindQuery(c *gin.Context, log *logrus.Entry, query any) bool {
	if err := c.ShouldBindQuery(query); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters"})
		return false
	}
	if err := h.validate.Struct(query); err != nil {
		h.respondError(c, log, appvalidator.Collect(err))
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Submit an incident report
// @Description Accepts a report from an online client or an offline queue replay. Repeating a known idempotency key returns the original record with 200.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client idempotency key (alternative to the body field)"
// @Param incident body CreateIncidentRequest true "Incident report"
// @Success 201 {object} models.Incident "Created"
// @Success 200 {object} models.Incident "Duplicate, original record"
// @Failure 400 {object} ErrorResponse "Validation error with all violated fields"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	key := normalizeKey(input.IdempotencyKey)
	if key == "" {
		key = normalizeKey(c.GetHeader(idempotencyHeader))
	}

	incident, created, err := h.incidentService.SubmitIncident(c.Request.Context(), input.RawReport, key)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	if !created {
		log.WithFields(logrus.Fields{"incident_id": incident.ID, "duplicate": true}).Info("Duplicate submission suppressed")
		c.JSON(http.StatusOK, incident)
		return
	}
	c.JSON(http.StatusCreated, incident)
}

// @Summary Get a list of incidents
// @Description Filters are combinable. area is a security area id or a case-insensitive part of the location label.
// @Tags Incidents
// @Produce json
// @Param hours query int false "Only incidents reported within the last N hours"
// @Param type query string false "Incident type"
// @Param area query string false "Security area id or location substring"
// @Param limit query int false "Maximum number of items"
// @Success 200 {array} models.Incident
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 404 {object} ErrorResponse "Unknown area id"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	var query ListIncidentsQuery
	if !h.bindQuery(c, log, &query) {
		return
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), store.ListFilter{
		Hours: query.Hours,
		Type:  query.Type,
		Area:  query.Area,
		Limit: query.Limit,
	})
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, incidents)
}

// @Summary Get incident by ID
// @Tags Incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} models.Incident
// @Failure 400 {object} ErrorResponse "Invalid incident ID"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, incident)
}

// @Summary Change incident status
// @Description Moves an incident between active and resolved. Setting the current status again is a no-op.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param status body UpdateStatusRequest true "New status"
// @Success 200 {object} models.Incident
// @Failure 400 {object} ErrorResponse "Invalid status"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Router /incidents/{id}/status [patch]
func (h *Handler) updateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateStatus").WithField("id", id)

	var input UpdateStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		h.respondError(c, log, appvalidator.Collect(err))
		return
	}

	incident, err := h.incidentService.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, incident)
}

// @Summary Incidents near a point
// @Description Returns incidents within radius meters of the point, nearest first.
// @Tags Spatial
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query number true "Radius in meters"
// @Success 200 {array} store.NearbyIncident
// @Failure 400 {object} ErrorResponse "Invalid point or radius"
// @Router /incidents/nearby [get]
func (h *Handler) nearbyIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "nearbyIncidents")

	var query NearbyQuery
	if !h.bindQuery(c, log, &query) {
		return
	}

	items, err := h.incidentService.Nearby(c.Request.Context(), *query.Latitude, *query.Longitude, *query.Radius)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Incidents inside a viewport
// @Tags Spatial
// @Produce json
// @Param minLat query number true "South edge"
// @Param minLng query number true "West edge"
// @Param maxLat query number true "North edge"
// @Param maxLng query number true "East edge (may be less than minLng across the antimeridian)"
// @Success 200 {array} models.Incident
// @Failure 400 {object} ErrorResponse "Invalid viewport"
// @Router /incidents/within [get]
func (h *Handler) withinIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "withinIncidents")

	incidents, ok := h.viewport(c, log)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, incidents)
}

// @Summary Viewport as GeoJSON
// @Description Same query as /incidents/within rendered as a FeatureCollection of points.
// @Tags Spatial
// @Produce json
// @Param minLat query number true "South edge"
// @Param minLng query number true "West edge"
// @Param maxLat query number true "North edge"
// @Param maxLng query number true "East edge"
// @Success 200 {object} map[string]interface{} "GeoJSON FeatureCollection"
// @Failure 400 {object} ErrorResponse "Invalid viewport"
// @Router /incidents/geojson [get]
func (h *Handler) incidentsGeoJSON(c *gin.Context) {
	log := h.logger.WithField("method", "incidentsGeoJSON")

	incidents, ok := h.viewport(c, log)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ModelsToFeatureCollection(incidents))
}

func (h *Handler) viewport(c *gin.Context, log *logrus.Entry) ([]*models.Incident, bool) {
	var query ViewportQuery
	if !h.bindQuery(c, log, &query) {
		return nil, false
	}

	incidents, err := h.incidentService.Within(c.Request.Context(), *query.MinLat, *query.MinLng, *query.MaxLat, *query.MaxLng)
	if err != nil {
		h.respondError(c, log, err)
		return nil, false
	}
	return incidents, true
}

// @Summary List security areas
// @Description incidentCount is derived from current incident assignments.
// @Tags Areas
// @Produce json
// @Success 200 {array} models.SecurityArea
// @Router /security-areas [get]
func (h *Handler) listAreas(c *gin.Context) {
	log := h.logger.WithField("method", "listAreas")

	areas, err := h.incidentService.ListAreas(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, areas)
}

// @Summary Create a security area
// @Tags Areas
// @Accept json
// @Produce json
// @Param area body models.AreaInput true "Area definition; radiusMeters defaults to 1000"
// @Success 201 {object} models.SecurityArea
// @Failure 400 {object} ErrorResponse "Validation error"
// @Router /security-areas [post]
func (h *Handler) createArea(c *gin.Context) {
	log := h.logger.WithField("method", "createArea")

	var input models.AreaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	area, err := h.incidentService.CreateArea(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, area)
}

// @Summary Update a security area
// @Description Partial update. Moving the center or changing the radius reassigns incidents.
// @Tags Areas
// @Accept json
// @Produce json
// @Param id path string true "Area ID"
// @Param area body models.AreaPatch true "Fields to change"
// @Success 200 {object} models.SecurityArea
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 404 {object} ErrorResponse "Area not found"
// @Router /security-areas/{id} [patch]
func (h *Handler) updateArea(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateArea").WithField("id", id)

	var patch models.AreaPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	area, err := h.incidentService.UpdateArea(c.Request.Context(), id, patch)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, area)
}

// @Summary Area containing a point
// @Description Returns the area whose circle contains the point; the closest center wins.
// @Tags Areas
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Success 200 {object} models.SecurityArea
// @Failure 400 {object} ErrorResponse "Invalid point"
// @Failure 404 {object} ErrorResponse "No area contains the point"
// @Router /security-areas/nearest [get]
func (h *Handler) nearestArea(c *gin.Context) {
	log := h.logger.WithField("method", "nearestArea")

	var query PointQuery
	if !h.bindQuery(c, log, &query) {
		return
	}

	area, err := h.incidentService.NearestArea(c.Request.Context(), *query.Latitude, *query.Longitude)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, area)
}

// @Summary Incident statistics
// @Description Counts, per-type and per-severity shares, per-area counts and zone overview for the last N hours.
// @Tags Stats
// @Produce json
// @Param hours query int false "Window size in hours" default(24)
// @Success 200 {object} StatsResponse
// @Failure 400 {object} ErrorResponse "Invalid window"
// @Router /stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	var query StatsQuery
	if !h.bindQuery(c, log, &query) {
		return
	}

	stats, err := h.incidentService.GetStats(c.Request.Context(), coalesce(query.Hours, h.cfg.StatsDefaultHours))
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelToStatsResponse(stats))
}

// @Summary Live incident feed
// @Description Websocket stream of incident_created and status_changed events.
// @Tags Incidents
// @Success 101 "Switching Protocols"
// @Router /ws/incidents [get]
func (h *Handler) liveFeed(c *gin.Context) {
	h.live.ServeWS(c.Writer, c.Request)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// normalizeKey: ключ из одних пробелов считается незаданным
func normalizeKey(key string) string {
	return strings.TrimSpace(key)
}
