package rbac

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/shared/logger"
	"github.com/wardgate/wardgate/internal/shared/utils"
)

// PolicyHandler exposes the casbin mirror of the grant table.
type PolicyHandler struct {
	mirror permission.PolicyMirror
	logger logger.Interface
}

func NewPolicyHandler(mirror permission.PolicyMirror, logger logger.Interface) *PolicyHandler {
	return &PolicyHandler{mirror: mirror, logger: logger}
}

// Sync godoc
// @Summary Sync policy mirror
// @Description Rebuild the casbin policy table from active roles' granted pairs
// @Tags policy
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /policy/sync [post]
func (h *PolicyHandler) Sync(c *gin.Context) {
	n, err := h.mirror.Sync(c.Request.Context())
	if err != nil {
		h.logger.Errorw("policy sync failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Policy synchronised", gin.H{"rules": n})
}

// Enforce godoc
// @Summary Enforce policy
// @Description Evaluate a role code, resource and action against the casbin mirror
// @Tags policy
// @Produce json
// @Security Bearer
// @Param role query string true "Role code"
// @Param resource query string true "Resource"
// @Param action query string true "Action"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /policy/enforce [get]
func (h *PolicyHandler) Enforce(c *gin.Context) {
	params, err := requireQuery(c, "role", "resource", "action")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	role := strings.ToUpper(strings.TrimSpace(params["role"]))
	resource := strings.ToLower(strings.TrimSpace(params["resource"]))
	action := strings.ToLower(strings.TrimSpace(params["action"]))

	allowed, err := h.mirror.Enforce(role, resource, action)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"role":     role,
		"resource": resource,
		"action":   action,
		"allowed":  allowed,
	})
}
