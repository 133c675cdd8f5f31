package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/result-academic/records-service/internal/services"
	"github.com/result-academic/records-service/internal/utils"
)

type EventHandler struct {
	BaseHandler
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService, logger utils.Logger) *EventHandler {
	return &EventHandler{
		BaseHandler:  NewBaseHandler(logger),
		eventService: eventService,
	}
}

// CreateEvent creates a scientific event
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Param payload body services.CreateEventRequest true "Event data"
// @Success 201 {object} services.EventResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating event", "name", req.Name)

	event, err := h.eventService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ListEvents lists events inside the caller's view scope
// @Summary List events
// @Tags events
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Success 200 {object} services.EventListResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	page := h.parseIntQuery(c, "page", 1)
	h.LogRequest(c, "Listing events", "page", page)

	response, err := h.eventService.List(c.Request.Context(), page, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetEvent retrieves an event by ID
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} services.EventResponse
// @Failure 404 {object} ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEvent fully replaces an event
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Param id path uint true "Event ID"
// @Param payload body services.UpdateEventRequest true "Event data"
// @Success 200 {object} services.EventResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating event", "event_id", id)

	event, err := h.eventService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent deletes an event or detaches the caller's authorship
// @Summary Delete event
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting event", "event_id", id)

	outcome, err := h.eventService.Delete(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event " + string(outcome),
		"outcome": string(outcome),
	})
}
