package rbac

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/shared/utils"
)

var _ = dto.TemplateDTO{} // ensure import is used for swagger

// ListTemplates godoc
// @Summary List templates
// @Description List the registered permission templates
// @Tags templates
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=dto.TemplateListDTO}
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /templates [get]
func (h *Handler) ListTemplates(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.templates.ListTemplates())
}

// DescribeTemplate godoc
// @Summary Describe template
// @Description Describe one permission template and its pairs
// @Tags templates
// @Produce json
// @Security Bearer
// @Param name path string true "Template name"
// @Success 200 {object} utils.APIResponse{data=dto.TemplateDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /templates/{name} [get]
func (h *Handler) DescribeTemplate(c *gin.Context) {
	tmpl, err := h.templates.DescribeTemplate(c.Param("name"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", tmpl)
}

// DeriveTemplate godoc
// @Summary Derive template
// @Description Build a template from a base plus additions and removals. The result is returned, not registered
// @Tags templates
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body DeriveTemplateRequest true "Request body"
// @Success 200 {object} utils.APIResponse{data=dto.TemplateDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /templates/derive [post]
func (h *Handler) DeriveTemplate(c *gin.Context) {
	var req DeriveTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tmpl, err := h.templates.DeriveTemplate(req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", tmpl)
}

// AvailablePermissions godoc
// @Summary Available permissions
// @Description List the resource and action vocabularies and the template names
// @Tags templates
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=dto.AvailablePermissionsDTO}
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /permissions/available [get]
func (h *Handler) AvailablePermissions(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.templates.AvailablePermissions())
}
