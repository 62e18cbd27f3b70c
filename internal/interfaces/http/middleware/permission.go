package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/shared/constants"
	"github.com/wardgate/wardgate/internal/shared/logger"
	"github.com/wardgate/wardgate/internal/shared/utils"
)

type roleChecker interface {
	CheckByCode(ctx context.Context, roleCode, resource, action string) (*dto.CheckResult, error)
}

type PermissionMiddleware struct {
	checker roleChecker
	logger  logger.Interface
}

func NewPermissionMiddleware(checker roleChecker, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		checker: checker,
		logger:  logger,
	}
}

// RequirePermission lets the request through only when the caller's role holds
// resource:action. It must run after AuthMiddleware.RequireAuth.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleCode := c.GetString(constants.ContextKeyRoleCode)
		if roleCode == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
			c.Abort()
			return
		}

		result, err := m.checker.CheckByCode(c.Request.Context(), roleCode, resource, action)
		if err != nil {
			if errors.Is(err, permission.ErrRoleNotFound) {
				m.logger.Warnw("token names an unknown role", "role_code", roleCode, "resource", resource, "action", action)
				utils.ErrorResponse(c, http.StatusForbidden, constants.ErrMsgForbidden)
				c.Abort()
				return
			}
			m.logger.Errorw("permission check failed", "error", err, "role_code", roleCode, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !result.HasPermission {
			m.logger.Warnw("permission denied",
				"role_code", roleCode,
				"permission_code", result.PermissionCode,
				"reason", result.Message)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
