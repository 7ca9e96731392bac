package handler

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
)

const maxSubmissionMemory = 32 << 20

// DataHandler form submission handler
type DataHandler struct {
	svc    *service.SubmissionService
	upload *service.UploadService
}

// NewDataHandler creates a form submission handler
func NewDataHandler(svc *service.SubmissionService, upload *service.UploadService) *DataHandler {
	return &DataHandler{svc: svc, upload: upload}
}

// SubmissionResponse body of POST /data and POST /data/:id/pdf
type SubmissionResponse struct {
	*entity.FormSubmission
	Persisted         bool   `json:"persisted"`
	ArtifactGenerated bool   `json:"artifact_generated"`
	WorkItemUpdated   bool   `json:"work_item_updated"`
	WorkItemError     string `json:"work_item_error,omitempty"`
}

func newSubmissionResponse(r *service.SubmissionResult) *SubmissionResponse {
	resp := &SubmissionResponse{
		FormSubmission:    r.Submission,
		Persisted:         r.Persisted,
		ArtifactGenerated: r.ArtifactGenerated,
		WorkItemUpdated:   r.WorkItemUpdated,
	}
	if r.WorkItemErr != nil {
		resp.WorkItemError = r.WorkItemErr.Error()
	}
	return resp
}

// Submit POST /data (application/json or multipart/form-data)
func (h *DataHandler) Submit(c *gin.Context) {
	var (
		req *service.SubmitRequest
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req, err = h.bindMultipart(c)
	} else {
		req = &service.SubmitRequest{}
		err = c.ShouldBindJSON(req)
	}
	if err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), req, author(c))
	h.respond(c, result, err)
}

// Get GET /data/:id
func (h *DataHandler) Get(c *gin.Context) {
	sub, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, sub)
}

// Regenerate POST /data/:id/pdf
func (h *DataHandler) Regenerate(c *gin.Context) {
	result, err := h.svc.Regenerate(c.Request.Context(), c.Param("id"), author(c))
	h.respond(c, result, err)
}

// ListByDefinition GET /definitions/:id/data
func (h *DataHandler) ListByDefinition(c *gin.Context) {
	subs, err := h.svc.ListByDefinition(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": subs})
}

func (h *DataHandler) respond(c *gin.Context, result *service.SubmissionResult, err error) {
	var artifact *service.ArtifactGenerationError
	switch {
	case err == nil:
		Created(c, newSubmissionResponse(result))
	case errors.As(err, &artifact) && result != nil:
		ErrorWithData(c, 50010, artifact.Error(), newSubmissionResponse(result))
	default:
		respondError(c, err)
	}
}

// bindMultipart reads definition_id, completed_by, completed_at, work_item_id
// and a JSON "values" object from form fields. File parts named after a field
// are stored and their reference becomes the value; a "signature" part fills
// the signature.
func (h *DataHandler) bindMultipart(c *gin.Context) (*service.SubmitRequest, error) {
	if err := c.Request.ParseMultipartForm(maxSubmissionMemory); err != nil {
		return nil, err
	}
	req := &service.SubmitRequest{
		DefinitionID: c.PostForm("definition_id"),
		CompletedBy:  c.PostForm("completed_by"),
		WorkItemID:   c.PostForm("work_item_id"),
	}
	if raw := c.PostForm("completed_at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, errors.New("completed_at must be RFC3339")
		}
		req.CompletedAt = t
	}
	if raw, ok := c.GetPostForm("values"); ok {
		req.Values = map[string]interface{}{}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Values); err != nil {
				return nil, errors.New("values must be a JSON object")
			}
		}
	}

	form := c.Request.MultipartForm
	if form == nil {
		return req, nil
	}
	ctx := c.Request.Context()
	for name, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		if name == "signature" {
			file, err := h.upload.SaveMultipart(ctx, service.SignaturePrefix, headers[0])
			if err != nil {
				return nil, err
			}
			req.Signature = file.URL
			continue
		}
		file, err := h.upload.SaveMultipart(ctx, service.UploadPrefix, headers[0])
		if err != nil {
			return nil, err
		}
		if req.Values == nil {
			req.Values = map[string]interface{}{}
		}
		req.Values[name] = file.URL
	}
	return req, nil
}
