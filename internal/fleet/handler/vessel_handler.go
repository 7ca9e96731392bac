package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
)

// VesselHandler vessel registry handler
type VesselHandler struct {
	svc *service.VesselService
}

// NewVesselHandler creates a vessel handler
func NewVesselHandler(svc *service.VesselService) *VesselHandler {
	return &VesselHandler{svc: svc}
}

// List GET /vessels
func (h *VesselHandler) List(c *gin.Context) {
	vessels, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": vessels})
}

// Get GET /vessels/:id
func (h *VesselHandler) Get(c *gin.Context) {
	vessel, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, vessel)
}

// Create POST /vessels
func (h *VesselHandler) Create(c *gin.Context) {
	var req service.VesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	vessel, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, vessel)
}

// Update PUT /vessels/:id
func (h *VesselHandler) Update(c *gin.Context) {
	var req service.VesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	vessel, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, vessel)
}

// Delete DELETE /vessels/:id
func (h *VesselHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}
