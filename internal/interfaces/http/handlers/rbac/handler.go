// Package rbac exposes role administration, grants, templates and permission checks
// over HTTP.
package rbac

import (
	"github.com/gin-gonic/gin"

	"github.com/wardgate/wardgate/internal/shared/errors"
	"github.com/wardgate/wardgate/internal/shared/logger"
	"github.com/wardgate/wardgate/internal/shared/utils"
)

type Handler struct {
	roles     roleAdmin
	grants    grantManager
	checker   permissionChecker
	templates templateCatalog
	logger    logger.Interface
}

func NewHandler(
	roles roleAdmin,
	grants grantManager,
	checker permissionChecker,
	templates templateCatalog,
	logger logger.Interface,
) *Handler {
	return &Handler{
		roles:     roles,
		grants:    grants,
		checker:   checker,
		templates: templates,
		logger:    logger,
	}
}

func parseRoleID(c *gin.Context) (uint, error) {
	return utils.ParseUintParam(c, "id", "role")
}

// bindJSON binds the body and answers 400 itself on failure.
func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warnw("invalid request body", "path", c.FullPath(), "error", err)
		utils.ErrorResponseWithError(c, utils.ValidationError(err))
		return false
	}
	return true
}

func requireQuery(c *gin.Context, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		v := c.Query(key)
		if v == "" {
			return nil, errors.NewValidationError(key + " is required")
		}
		values[key] = v
	}
	return values, nil
}
