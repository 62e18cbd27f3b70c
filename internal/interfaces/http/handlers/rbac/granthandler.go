package rbac

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/shared/utils"
)

var _ = dto.GrantDTO{} // ensure import is used for swagger

// ListGrants godoc
// @Summary List grants
// @Description List every grant and explicit deny of a role
// @Tags grants
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 200 {object} utils.APIResponse{data=[]dto.GrantDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/permissions [get]
func (h *Handler) ListGrants(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	grants, err := h.grants.ListByRole(c.Request.Context(), roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", grants)
}

// Grant godoc
// @Summary Grant permission
// @Description Grant a resource:action pair to a role. A second grant of the same code is 409
// @Tags grants
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body GrantRequest true "Request body"
// @Success 201 {object} utils.APIResponse{data=dto.GrantDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/permissions [post]
func (h *Handler) Grant(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req GrantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	grant, err := h.grants.Grant(c.Request.Context(), req.ToCommand(roleID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, grant, "Permission granted")
}

// SetGrantFlag godoc
// @Summary Set grant flag
// @Description Create or update a grant with the given flag. false records an explicit deny
// @Tags grants
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body SetGrantFlagRequest true "Request body"
// @Success 200 {object} utils.APIResponse{data=dto.GrantDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/permissions [put]
func (h *Handler) SetGrantFlag(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SetGrantFlagRequest
	if !h.bindJSON(c, &req) {
		return
	}

	grant, err := h.grants.SetGrantFlag(c.Request.Context(), roleID, req.Resource, req.Action, *req.IsGranted)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permission updated", grant)
}

// Revoke godoc
// @Summary Revoke permission
// @Description Remove a grant. Revoking an absent grant is not an error
// @Tags grants
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param code path string true "Permission code (resource:action)"
// @Success 204
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/permissions/{code} [delete]
func (h *Handler) Revoke(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.grants.RevokeCode(c.Request.Context(), roleID, c.Param("code")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// BulkGrant godoc
// @Summary Bulk grant
// @Description Grant a list of pairs. Existing grants are counted as skipped
// @Tags grants
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body BulkPermissionsRequest true "Request body"
// @Success 200 {object} utils.APIResponse{data=dto.BulkResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/permissions/bulk [post]
func (h *Handler) BulkGrant(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req BulkPermissionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.grants.BulkGrant(c.Request.Context(), roleID, req.ToInputs())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permissions granted", result)
}

// BulkRevoke godoc
// @Summary Bulk revoke
// @Description Revoke a list of pairs. Absent grants are counted as skipped
// @Tags grants
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body BulkPermissionsRequest true "Request body"
// @Success 200 {object} utils.APIResponse{data=dto.BulkRevokeResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/permissions/bulk-revoke [post]
func (h *Handler) BulkRevoke(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req BulkPermissionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.grants.BulkRevoke(c.Request.Context(), roleID, req.ToInputs())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permissions revoked", result)
}

// UpdateConditions godoc
// @Summary Update grant conditions
// @Description Replace the JSON conditions attached to a grant
// @Tags grants
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param code path string true "Permission code (resource:action)"
// @Param request body UpdateConditionsRequest true "Request body"
// @Success 200 {object} utils.APIResponse{data=dto.GrantDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/permissions/{code}/conditions [patch]
func (h *Handler) UpdateConditions(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateConditionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	grant, err := h.grants.UpdateConditions(c.Request.Context(), roleID, c.Param("code"), req.Conditions)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Conditions updated", grant)
}

// Check godoc
// @Summary Check permission
// @Description Answer whether a role may perform an action on a resource
// @Tags checks
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param resource query string true "Resource"
// @Param action query string true "Action"
// @Success 200 {object} utils.APIResponse{data=dto.CheckResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /roles/{id}/check [get]
func (h *Handler) Check(c *gin.Context) {
	roleID, err := parseRoleID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	params, err := requireQuery(c, "resource", "action")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.checker.Check(c.Request.Context(), roleID, params["resource"], params["action"])
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
