package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/result-academic/records-service/internal/services"
	"github.com/result-academic/records-service/internal/utils"
)

type DepartmentHandler struct {
	BaseHandler
	departmentService services.DepartmentService
}

func NewDepartmentHandler(departmentService services.DepartmentService, logger utils.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		departmentService: departmentService,
	}
}

// ListDepartments lists all departments with member counts
// @Summary List departments
// @Tags departments
// @Produce json
// @Success 200 {object} services.DepartmentListResponse
// @Router /departments [get]
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	response, err := h.departmentService.List(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetDepartment retrieves a department by ID
// @Summary Get department
// @Tags departments
// @Produce json
// @Param id path uint true "Department ID"
// @Success 200 {object} models.Department
// @Failure 404 {object} ErrorResponse
// @Router /departments/{id} [get]
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	department, err := h.departmentService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, department)
}

// CreateDepartment creates a department, optionally promoting a head
// @Summary Create department
// @Tags departments
// @Accept json
// @Produce json
// @Param payload body services.CreateDepartmentRequest true "Department data"
// @Success 201 {object} models.Department
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/departments [post]
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating department", "name", req.Name)

	department, err := h.departmentService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, department)
}

// UpdateDepartment updates a department, handling head transitions
// @Summary Update department
// @Tags departments
// @Accept json
// @Produce json
// @Param id path uint true "Department ID"
// @Param payload body services.UpdateDepartmentRequest true "Department data"
// @Success 200 {object} models.Department
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/departments/{id} [put]
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating department", "department_id", id)

	department, err := h.departmentService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, department)
}

// DeleteDepartment deletes an empty department
// @Summary Delete department
// @Tags departments
// @Produce json
// @Param id path uint true "Department ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/departments/{id} [delete]
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting department", "department_id", id)

	if err := h.departmentService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Department deleted successfully",
	})
}
