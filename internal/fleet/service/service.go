package service

import (
	"github.com/redis/go-redis/v9"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/config"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/sse"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/storage"
	"go.uber.org/zap"
)

// Services service set
type Services struct {
	Auth       *AuthService
	User       *UserService
	Vessel     *VesselService
	Form       *FormService
	Submission *SubmissionService
	WorkItem   *WorkItemService
	Comment    *CommentService
	NCR        *NCRService
	Upload     *UploadService
	PDF        *PDFGenerator
}

// NewServices wires every service. rdb and hub may be nil.
func NewServices(repos *repository.Repositories, rdb *redis.Client, store storage.BlobStore, hub *sse.Hub, cfg *config.Config, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	forms := NewFormService(repos.Form, repos.Vessel, rdb, logger.Named("forms"))
	workItems := NewWorkItemService(repos.WorkItem, hub, logger.Named("work_items"))
	pdf := NewPDFGenerator(store)

	return &Services{
		Auth:       NewAuthService(repos.User, rdb, cfg.JWT, logger.Named("auth")),
		User:       NewUserService(repos.User),
		Vessel:     NewVesselService(repos.Vessel),
		Form:       forms,
		Submission: NewSubmissionService(repos.Submission, forms, workItems, pdf, logger.Named("submissions")),
		WorkItem:   workItems,
		Comment:    NewCommentService(repos.Comment, hub, logger.Named("comments")),
		NCR:        NewNCRService(repos.NCR, hub, logger.Named("ncrs")),
		Upload:     NewUploadService(store),
		PDF:        pdf,
	}
}
