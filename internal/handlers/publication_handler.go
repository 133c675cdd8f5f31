package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/result-academic/records-service/internal/services"
	"github.com/result-academic/records-service/internal/utils"
)

type PublicationHandler struct {
	BaseHandler
	publicationService services.PublicationService
}

func NewPublicationHandler(publicationService services.PublicationService, logger utils.Logger) *PublicationHandler {
	return &PublicationHandler{
		BaseHandler:        NewBaseHandler(logger),
		publicationService: publicationService,
	}
}

// CreatePublication creates a publication with its detail record
// @Summary Create publication
// @Tags publications
// @Accept json
// @Produce json
// @Param payload body services.CreatePublicationRequest true "Publication data"
// @Success 201 {object} services.PublicationResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /publications [post]
func (h *PublicationHandler) CreatePublication(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating publication", "name", req.Name)

	publication, err := h.publicationService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, publication)
}

// ListPublications lists publications inside the caller's view scope
// @Summary List publications
// @Tags publications
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Success 200 {object} services.PublicationListResponse
// @Router /publications [get]
func (h *PublicationHandler) ListPublications(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	page := h.parseIntQuery(c, "page", 1)
	h.LogRequest(c, "Listing publications", "page", page)

	response, err := h.publicationService.List(c.Request.Context(), page, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetPublication retrieves a publication by ID
// @Summary Get publication
// @Tags publications
// @Produce json
// @Param id path uint true "Publication ID"
// @Success 200 {object} services.PublicationResponse
// @Failure 404 {object} ErrorResponse
// @Router /publications/{id} [get]
func (h *PublicationHandler) GetPublication(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	publication, err := h.publicationService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, publication)
}

// UpdatePublication fully replaces a publication
// @Summary Update publication
// @Tags publications
// @Accept json
// @Produce json
// @Param id path uint true "Publication ID"
// @Param payload body services.UpdatePublicationRequest true "Publication data"
// @Success 200 {object} services.PublicationResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /publications/{id} [put]
func (h *PublicationHandler) UpdatePublication(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating publication", "publication_id", id)

	publication, err := h.publicationService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, publication)
}

// DeletePublication deletes a publication or detaches the caller's authorship
// @Summary Delete publication
// @Tags publications
// @Produce json
// @Param id path uint true "Publication ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /publications/{id} [delete]
func (h *PublicationHandler) DeletePublication(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting publication", "publication_id", id)

	outcome, err := h.publicationService.Delete(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Publication " + string(outcome),
		"outcome": string(outcome),
	})
}
