package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
	"github.com/xuri/excelize/v2"
)

// WorkItemHandler work item handler
type WorkItemHandler struct {
	svc *service.WorkItemService
}

// NewWorkItemHandler creates a work item handler
func NewWorkItemHandler(svc *service.WorkItemService) *WorkItemHandler {
	return &WorkItemHandler{svc: svc}
}

func workItemFilter(c *gin.Context) repository.WorkItemFilter {
	filter := repository.WorkItemFilter{
		VesselID:    c.Query("vessel_id"),
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
	}
	if v := c.Query("completed"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Completed = &b
		}
	}
	return filter
}

// List GET /work-items?vessel_id=&category=&subcategory=&completed=
func (h *WorkItemHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), workItemFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Get GET /work-items/:id
func (h *WorkItemHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, item)
}

// Create POST /work-items
func (h *WorkItemHandler) Create(c *gin.Context) {
	var req service.WorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	item, err := h.svc.Create(c.Request.Context(), &req, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, item)
}

// Update PUT /work-items/:id
func (h *WorkItemHandler) Update(c *gin.Context) {
	var req service.WorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, item)
}

// Delete DELETE /work-items/:id
func (h *WorkItemHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}

// Complete POST /work-items/:id/complete
func (h *WorkItemHandler) Complete(c *gin.Context) {
	var req struct {
		Attachments []string `json:"attachments"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}
	s := session(c)
	completedBy := s.Name
	if completedBy == "" {
		completedBy = s.UserID
	}
	item, err := h.svc.Complete(c.Request.Context(), c.Param("id"), req.Attachments, completedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, item)
}

// Export GET /work-items/export
func (h *WorkItemHandler) Export(c *gin.Context) {
	f, filename, err := h.svc.Export(c.Request.Context(), workItemFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

// Import POST /work-items/import
func (h *WorkItemHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "An xlsx file is required")
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		BadRequest(c, "Unable to read workbook: "+err.Error())
		return
	}
	defer f.Close()

	items, err := h.svc.Import(c.Request.Context(), f, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, gin.H{"items": items, "count": len(items)})
}
