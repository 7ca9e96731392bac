package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
)

// NCRHandler non-conformity report handler
type NCRHandler struct {
	svc *service.NCRService
}

// NewNCRHandler creates an NCR handler
func NewNCRHandler(svc *service.NCRService) *NCRHandler {
	return &NCRHandler{svc: svc}
}

// List GET /ncrs?vessel_id=&status=
func (h *NCRHandler) List(c *gin.Context) {
	ncrs, err := h.svc.List(c.Request.Context(), c.Query("vessel_id"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": ncrs})
}

// Get GET /ncrs/:id
func (h *NCRHandler) Get(c *gin.Context) {
	ncr, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, ncr)
}

// Create POST /ncrs
func (h *NCRHandler) Create(c *gin.Context) {
	var req service.NCRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	ncr, err := h.svc.Create(c.Request.Context(), &req, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, ncr)
}

// Update PUT /ncrs/:id
func (h *NCRHandler) Update(c *gin.Context) {
	var req service.NCRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	ncr, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, ncr)
}

// Close POST /ncrs/:id/close
func (h *NCRHandler) Close(c *gin.Context) {
	ncr, err := h.svc.Close(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, ncr)
}

// Reopen POST /ncrs/:id/reopen
func (h *NCRHandler) Reopen(c *gin.Context) {
	ncr, err := h.svc.Reopen(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, ncr)
}

// Delete DELETE /ncrs/:id
func (h *NCRHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}
