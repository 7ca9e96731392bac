package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/storage"
)

// UploadHandler file upload handler
type UploadHandler struct {
	svc *service.UploadService
}

// NewUploadHandler creates a file upload handler
func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Upload POST /upload (multipart "files" or "file")
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "Unable to parse upload: "+err.Error())
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		BadRequest(c, "No file uploaded")
		return
	}

	uploaded := make([]*service.UploadedFile, 0, len(files))
	for _, fh := range files {
		file, err := h.svc.SaveMultipart(c.Request.Context(), service.UploadPrefix, fh)
		if err != nil {
			InternalError(c, "Save upload failed: "+err.Error())
			return
		}
		uploaded = append(uploaded, file)
	}
	Success(c, uploaded)
}

// Serve GET /files/*path
func (h *UploadHandler) Serve(c *gin.Context) {
	rc, obj, err := h.svc.Open(c.Request.Context(), c.Param("path"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			NotFound(c, "File not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	defer rc.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	c.DataFromReader(200, obj.Size, contentType, rc, nil)
}
