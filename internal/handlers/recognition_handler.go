package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/result-academic/records-service/internal/services"
	"github.com/result-academic/records-service/internal/utils"
)

type RecognitionHandler struct {
	BaseHandler
	recognitionService services.RecognitionService
}

func NewRecognitionHandler(recognitionService services.RecognitionService, logger utils.Logger) *RecognitionHandler {
	return &RecognitionHandler{
		BaseHandler:        NewBaseHandler(logger),
		recognitionService: recognitionService,
	}
}

// CreateRecognition creates a recognition
// @Summary Create recognition
// @Tags recognitions
// @Accept json
// @Produce json
// @Param payload body services.CreateRecognitionRequest true "Recognition data"
// @Success 201 {object} services.RecognitionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /recognitions [post]
func (h *RecognitionHandler) CreateRecognition(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateRecognitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating recognition", "name", req.Name)

	recognition, err := h.recognitionService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recognition)
}

// ListRecognitions lists recognitions inside the caller's view scope
// @Summary List recognitions
// @Tags recognitions
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Success 200 {object} services.RecognitionListResponse
// @Router /recognitions [get]
func (h *RecognitionHandler) ListRecognitions(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	page := h.parseIntQuery(c, "page", 1)
	h.LogRequest(c, "Listing recognitions", "page", page)

	response, err := h.recognitionService.List(c.Request.Context(), page, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetRecognition retrieves a recognition by ID
// @Summary Get recognition
// @Tags recognitions
// @Produce json
// @Param id path uint true "Recognition ID"
// @Success 200 {object} services.RecognitionResponse
// @Failure 404 {object} ErrorResponse
// @Router /recognitions/{id} [get]
func (h *RecognitionHandler) GetRecognition(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	recognition, err := h.recognitionService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recognition)
}

// UpdateRecognition fully replaces a recognition
// @Summary Update recognition
// @Tags recognitions
// @Accept json
// @Produce json
// @Param id path uint true "Recognition ID"
// @Param payload body services.UpdateRecognitionRequest true "Recognition data"
// @Success 200 {object} services.RecognitionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /recognitions/{id} [put]
func (h *RecognitionHandler) UpdateRecognition(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateRecognitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating recognition", "recognition_id", id)

	recognition, err := h.recognitionService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recognition)
}

// DeleteRecognition deletes a recognition or detaches the caller's authorship
// @Summary Delete recognition
// @Tags recognitions
// @Produce json
// @Param id path uint true "Recognition ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /recognitions/{id} [delete]
func (h *RecognitionHandler) DeleteRecognition(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting recognition", "recognition_id", id)

	outcome, err := h.recognitionService.Delete(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recognition " + string(outcome),
		"outcome": string(outcome),
	})
}
