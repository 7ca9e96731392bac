package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
)

// QueryHandler cascading category filters
type QueryHandler struct {
	svc *service.FormService
}

// NewQueryHandler creates a query handler
func NewQueryHandler(svc *service.FormService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

// Categories GET /categories
func (h *QueryHandler) Categories(c *gin.Context) {
	categories, err := h.svc.DistinctCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": categories})
}

// CategoriesForVessel GET /categories/:vesselId
func (h *QueryHandler) CategoriesForVessel(c *gin.Context) {
	categories, err := h.svc.CategoriesForVessel(c.Request.Context(), c.Param("vesselId"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": categories})
}

// Subcategories GET /subcategories/:category
func (h *QueryHandler) Subcategories(c *gin.Context) {
	subcategories, err := h.svc.DistinctSubcategories(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": subcategories})
}

// Items GET /items/:subcategory
func (h *QueryHandler) Items(c *gin.Context) {
	names, err := h.svc.DistinctFormNames(c.Request.Context(), c.Param("subcategory"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": names})
}
