package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/result-academic/records-service/internal/services"
	"github.com/result-academic/records-service/internal/utils"
)

type AwardHandler struct {
	BaseHandler
	awardService services.AwardService
}

func NewAwardHandler(awardService services.AwardService, logger utils.Logger) *AwardHandler {
	return &AwardHandler{
		BaseHandler:  NewBaseHandler(logger),
		awardService: awardService,
	}
}

// CreateAward creates an award
// @Summary Create award
// @Tags awards
// @Accept json
// @Produce json
// @Param payload body services.CreateAwardRequest true "Award data"
// @Success 201 {object} services.AwardResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /awards [post]
func (h *AwardHandler) CreateAward(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating award", "name", req.Name)

	award, err := h.awardService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, award)
}

// ListAwards lists awards inside the caller's view scope
// @Summary List awards
// @Tags awards
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Success 200 {object} services.AwardListResponse
// @Router /awards [get]
func (h *AwardHandler) ListAwards(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	page := h.parseIntQuery(c, "page", 1)
	h.LogRequest(c, "Listing awards", "page", page)

	response, err := h.awardService.List(c.Request.Context(), page, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetAward retrieves an award by ID
// @Summary Get award
// @Tags awards
// @Produce json
// @Param id path uint true "Award ID"
// @Success 200 {object} services.AwardResponse
// @Failure 404 {object} ErrorResponse
// @Router /awards/{id} [get]
func (h *AwardHandler) GetAward(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	award, err := h.awardService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, award)
}

// UpdateAward fully replaces an award
// @Summary Update award
// @Tags awards
// @Accept json
// @Produce json
// @Param id path uint true "Award ID"
// @Param payload body services.UpdateAwardRequest true "Award data"
// @Success 200 {object} services.AwardResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /awards/{id} [put]
func (h *AwardHandler) UpdateAward(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating award", "award_id", id)

	award, err := h.awardService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, award)
}

// DeleteAward deletes an award or detaches the caller's authorship
// @Summary Delete award
// @Tags awards
// @Produce json
// @Param id path uint true "Award ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /awards/{id} [delete]
func (h *AwardHandler) DeleteAward(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting award", "award_id", id)

	outcome, err := h.awardService.Delete(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Award " + string(outcome),
		"outcome": string(outcome),
	})
}
