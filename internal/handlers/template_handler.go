package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/httpresp"
	"github.com/BruksfildServices01/wealth-crm/internal/middleware"
	ucAvailability "github.com/BruksfildServices01/wealth-crm/internal/usecase/availability"
)

type TemplateHandler struct {
	list       *ucAvailability.ListTemplates
	get        *ucAvailability.GetTemplate
	create     *ucAvailability.CreateTemplate
	update     *ucAvailability.UpdateTemplate
	deactivate *ucAvailability.DeactivateTemplate
}

func NewTemplateHandler(
	list *ucAvailability.ListTemplates,
	get *ucAvailability.GetTemplate,
	create *ucAvailability.CreateTemplate,
	update *ucAvailability.UpdateTemplate,
	deactivate *ucAvailability.DeactivateTemplate,
) *TemplateHandler {
	return &TemplateHandler{
		list:       list,
		get:        get,
		create:     create,
		update:     update,
		deactivate: deactivate,
	}
}

func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.list.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_templates")
		return
	}
	httpresp.List(c, templates)
}

func (h *TemplateHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	tpl, err := h.get.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_load_template")
		return
	}
	httpresp.OK(c, tpl)
}

func (h *TemplateHandler) Create(c *gin.Context) {
	var req ucAvailability.TemplateInput
	if !bindJSON(c, &req) {
		return
	}

	tpl, err := h.create.Execute(c.Request.Context(), middleware.UserID(c), middleware.Timezone(c), req)
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_template")
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ucAvailability.TemplateInput
	if !bindJSON(c, &req) {
		return
	}

	tpl, err := h.update.Execute(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_template")
		return
	}
	httpresp.OK(c, tpl)
}

func (h *TemplateHandler) Deactivate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	tpl, err := h.deactivate.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_deactivate_template")
		return
	}
	httpresp.OK(c, tpl)
}
