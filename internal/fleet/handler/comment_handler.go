package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
)

// CommentHandler record comment thread handler
type CommentHandler struct {
	svc *service.CommentService
}

// NewCommentHandler creates a comment handler
func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// List GET /records/:parentId/comments
func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.svc.List(c.Request.Context(), c.Param("parentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": comments})
}

// Post POST /records/:parentId/comments
func (h *CommentHandler) Post(c *gin.Context) {
	var req service.PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	comment, err := h.svc.Post(c.Request.Context(), c.Param("parentId"), author(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, comment)
}

// MarkRead POST /records/:parentId/comments/read
func (h *CommentHandler) MarkRead(c *gin.Context) {
	updated, err := h.svc.MarkRead(c.Request.Context(), c.Param("parentId"), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"updated": updated})
}

// Unread GET /records/:parentId/comments/unread
func (h *CommentHandler) Unread(c *gin.Context) {
	n, err := h.svc.UnreadCount(c.Request.Context(), c.Param("parentId"), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"unread": n})
}
