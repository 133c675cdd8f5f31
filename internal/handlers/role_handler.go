package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/result-academic/records-service/internal/services"
	"github.com/result-academic/records-service/internal/utils"
	"github.com/result-academic/records-service/internal/validator"
)

type RoleHandler struct {
	BaseHandler
	roleService services.RoleService
}

func NewRoleHandler(roleService services.RoleService, logger utils.Logger) *RoleHandler {
	return &RoleHandler{
		BaseHandler: NewBaseHandler(logger),
		roleService: roleService,
	}
}

// ListRoles lists all roles with their permissions
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {array} models.Role
// @Failure 403 {object} ErrorResponse
// @Router /admin/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	roles, err := h.roleService.List(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// ListPermissions lists the permission vocabulary
// @Summary List permissions
// @Tags roles
// @Produce json
// @Success 200 {array} models.Permission
// @Failure 403 {object} ErrorResponse
// @Router /admin/permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	permissions, err := h.roleService.ListPermissions(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"permissions": permissions})
}

// CreateRole creates a role with a permission set
// @Summary Create role
// @Tags roles
// @Accept json
// @Produce json
// @Param payload body services.CreateRoleRequest true "Role data"
// @Success 201 {object} models.Role
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /admin/roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating role", "name", req.Name)

	role, err := h.roleService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

// SyncRolePermissions replaces a role's permission set
// @Summary Sync role permissions
// @Tags roles
// @Accept json
// @Produce json
// @Param id path uint true "Role ID"
// @Param payload body validator.RolePermissionsRequest true "Permission names"
// @Success 200 {object} models.Role
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /admin/roles/{id}/permissions [put]
func (h *RoleHandler) SyncRolePermissions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req validator.RolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Syncing role permissions", "role_id", id)

	role, err := h.roleService.SyncPermissions(c.Request.Context(), id, req.Permissions, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// DeleteRole deletes a role, moving bearers to the default role
// @Summary Delete role
// @Tags roles
// @Produce json
// @Param id path uint true "Role ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /admin/roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting role", "role_id", id)

	if err := h.roleService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Role deleted successfully",
	})
}
