package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
)

// FormHandler form definition handler
type FormHandler struct {
	svc *service.FormService
}

// NewFormHandler creates a form definition handler
func NewFormHandler(svc *service.FormService) *FormHandler {
	return &FormHandler{svc: svc}
}

// List GET /definitions?category=&subcategory=
func (h *FormHandler) List(c *gin.Context) {
	defs, err := h.svc.List(c.Request.Context(), c.Query("category"), c.Query("subcategory"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": defs})
}

// Get GET /definitions/:id
func (h *FormHandler) Get(c *gin.Context) {
	def, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, def)
}

// Render GET /definitions/:id/render
func (h *FormHandler) Render(c *gin.Context) {
	def, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	form, err := service.Render(def)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, form)
}

// Create POST /definitions
func (h *FormHandler) Create(c *gin.Context) {
	var req service.DefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	def, err := h.svc.Create(c.Request.Context(), &req, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, def)
}

// Update PUT /definitions/:id
func (h *FormHandler) Update(c *gin.Context) {
	var req service.DefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	def, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, def)
}

// Delete DELETE /definitions/:id
func (h *FormHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}
