package rbac

import (
	"net/http"

	"github.com/gin-gonic/gin"

	rbacapp "github.com/wardgate/wardgate/internal/application/permission"
	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/shared/utils"
)

var _ = dto.RoleDTO{} // ensure import is used for swagger

// ListRoles godoc
// @Summary List roles
// @Description List roles with optional name, code, type and status filters
// @Tags roles
// @Produce json
// @Security Bearer
// @Param name query string false "Name contains"
// @Param code query string false "Role code"
// @Param role_type query string false "system or custom"
// @Param status query string false "active or inactive"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse{items=[]dto.RoleDTO}}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles [get]
func (h *Handler) ListRoles(c *gin.Context) {
	pagination := utils.ParsePagination(c)
	query := rbacapp.ListRolesQuery{
		Name:     c.Query("name"),
		Code:     c.Query("code"),
		RoleType: c.Query("role_type"),
		Status:   c.Query("status"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}

	roles, total, err := h.roles.ListRoles(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, roles, total, pagination.Page, pagination.PageSize)
}

// CreateRole godoc
// @Summary Create role
// @Description Create an empty custom role. The code is derived from the name when omitted
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateRoleRequest true "Request body"
// @Success 201 {object} utils.APIResponse{data=dto.RoleDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles [post]
func (h *Handler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, role, "Role created successfully")
}

// CreateRoleFromTemplate godoc
// @Summary Create role from template
// @Description Create a custom role and grant every pair of the named template in one transaction
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateRoleFromTemplateRequest true "Request body"
// @Success 201 {object} utils.APIResponse{data=dto.RoleWithGrantsDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/from-template [post]
func (h *Handler) CreateRoleFromTemplate(c *gin.Context) {
	var req CreateRoleFromTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	role, err := h.roles.CreateRoleFromTemplate(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, role, "Role created from template")
}

// GetRole godoc
// @Summary Get role
// @Description Get a role by ID
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 200 {object} utils.APIResponse{data=dto.RoleDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id} [get]
func (h *Handler) GetRole(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	role, err := h.roles.GetRole(c.Request.Context(), roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", role)
}

// UpdateRole godoc
// @Summary Update role
// @Description Update the name, description or level of a role
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body UpdateRoleRequest true "Request body"
// @Success 200 {object} utils.APIResponse{data=dto.RoleDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id} [patch]
func (h *Handler) UpdateRole(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	role, err := h.roles.UpdateRole(c.Request.Context(), roleID, req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role updated successfully", role)
}

// SetRoleStatus godoc
// @Summary Set role status
// @Description Activate or deactivate a role. Inactive roles fail every check
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body SetRoleStatusRequest true "Request body"
// @Success 200 {object} utils.APIResponse{data=dto.RoleDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/status [patch]
func (h *Handler) SetRoleStatus(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SetRoleStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	role, err := h.roles.SetRoleStatus(c.Request.Context(), roleID, req.Status)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role status updated", role)
}

// DeleteRole godoc
// @Summary Delete role
// @Description Delete a role together with its grants
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 204
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id} [delete]
func (h *Handler) DeleteRole(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.roles.DeleteRole(c.Request.Context(), roleID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// CopyPermissions godoc
// @Summary Copy permissions
// @Description Copy every grant of one role onto another, optionally overwriting existing rows
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CopyPermissionsRequest true "Request body"
// @Success 200 {object} utils.APIResponse{data=dto.CopyResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/copy [post]
func (h *Handler) CopyPermissions(c *gin.Context) {
	var req CopyPermissionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.roles.CopyPermissions(c.Request.Context(), req.FromRoleID, req.ToRoleID, req.Overwrite)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permissions copied", result)
}

// PermissionMatrix godoc
// @Summary Permission matrix
// @Description Resource by action matrix of a role's granted pairs
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 200 {object} utils.APIResponse{data=dto.MatrixDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/matrix [get]
func (h *Handler) PermissionMatrix(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	matrix, err := h.roles.PermissionMatrix(c.Request.Context(), roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", matrix)
}

// PermissionSummary godoc
// @Summary Permission summary
// @Description Counts of granted permissions per resource and action
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 200 {object} utils.APIResponse{data=dto.PermissionSummary}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/summary [get]
func (h *Handler) PermissionSummary(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	summary, err := h.roles.PermissionSummary(c.Request.Context(), roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// GrantTemplate godoc
// @Summary Grant template
// @Description Grant every pair of a template to an existing role. Existing grants are skipped
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param name path string true "Template name"
// @Success 200 {object} utils.APIResponse{data=dto.BulkResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/templates/{name} [post]
func (h *Handler) GrantTemplate(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.roles.GrantTemplate(c.Request.Context(), roleID, c.Param("name"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Template granted", result)
}
