package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/sse"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/middleware"
	"go.uber.org/zap"
)

// Handlers handler set
type Handlers struct {
	Auth     *AuthHandler
	Vessel   *VesselHandler
	Form     *FormHandler
	Data     *DataHandler
	Query    *QueryHandler
	WorkItem *WorkItemHandler
	Comment  *CommentHandler
	NCR      *NCRHandler
	Upload   *UploadHandler
	SSE      *SSEHandler
}

// NewHandlers creates the handler set
func NewHandlers(svc *service.Services, hub *sse.Hub, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		Auth:     NewAuthHandler(svc.Auth),
		Vessel:   NewVesselHandler(svc.Vessel),
		Form:     NewFormHandler(svc.Form),
		Data:     NewDataHandler(svc.Submission, svc.Upload),
		Query:    NewQueryHandler(svc.Form),
		WorkItem: NewWorkItemHandler(svc.WorkItem),
		Comment:  NewCommentHandler(svc.Comment),
		NCR:      NewNCRHandler(svc.NCR),
		Upload:   NewUploadHandler(svc.Upload),
		SSE:      NewSSEHandler(hub, logger.Named("sse")),
	}
}

// Response common response envelope
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 200 response
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 response
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error error response; the HTTP status is code/100
func Error(c *gin.Context, code int, message string) {
	ErrorWithData(c, code, message, nil)
}

// ErrorWithData error response carrying details in data
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// BadRequest 400 response
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 401 response
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Forbidden 403 response
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// NotFound 404 response
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// InternalError 500 response
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// respondError maps service errors onto the envelope
func respondError(c *gin.Context, err error) {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		artifact   *service.ArtifactGenerationError
	)
	switch {
	case errors.As(err, &validation):
		if len(validation.Fields) > 0 {
			ErrorWithData(c, 40000, validation.Message, gin.H{"errors": validation.Fields})
			return
		}
		BadRequest(c, validation.Message)
	case errors.As(err, &notFound):
		NotFound(c, notFound.Error())
	case errors.As(err, &artifact):
		Error(c, 50010, artifact.Error())
	case errors.Is(err, service.ErrUnauthorized):
		Unauthorized(c, err.Error())
	default:
		_ = c.Error(err)
		InternalError(c, err.Error())
	}
}

// author identifies the session user to services that record who acted
func author(c *gin.Context) service.Author {
	s := session(c)
	return service.Author{ID: s.UserID, Name: s.Name}
}

// session returns the request session; JWTAuth guarantees one on protected routes
func session(c *gin.Context) *middleware.Session {
	if s, ok := middleware.SessionFrom(c); ok {
		return s
	}
	return &middleware.Session{}
}

// GetUserID user id of the request session
func GetUserID(c *gin.Context) string {
	return session(c).UserID
}
