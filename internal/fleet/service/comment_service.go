package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/sse"
	"go.uber.org/zap"
)

// PostCommentRequest comment payload
type PostCommentRequest struct {
	Message    string `json:"message"`
	Attachment string `json:"attachment"`
}

// CommentService per-record comment threads
type CommentService struct {
	repo   *repository.CommentRepository
	hub    *sse.Hub
	logger *zap.Logger
}

// NewCommentService creates a comment service; hub may be nil
func NewCommentService(repo *repository.CommentRepository, hub *sse.Hub, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{repo: repo, hub: hub, logger: logger}
}

// Post adds a comment to parentID's thread. The author starts as a reader.
func (s *CommentService) Post(ctx context.Context, parentID string, author Author, req *PostCommentRequest) (*entity.Comment, error) {
	var errs []string
	if strings.TrimSpace(parentID) == "" {
		errs = append(errs, "parent_id is required")
	}
	if author.ID == "" {
		errs = append(errs, "author is required")
	}
	message := ""
	if req != nil {
		message = strings.TrimSpace(req.Message)
	}
	if message == "" {
		errs = append(errs, "message is required")
	} else if n := utf8.RuneCountInString(message); n > entity.CommentMaxLength {
		errs = append(errs, fmt.Sprintf("message is %d characters, the limit is %d", n, entity.CommentMaxLength))
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Message: "invalid comment", Fields: errs}
	}

	comment := &entity.Comment{
		ID:         entity.NewID(),
		ParentID:   parentID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Message:    message,
		Attachment: req.Attachment,
	}
	comment.AddReader(author.ID)
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	s.hub.PublishCommentPosted(parentID, comment.ID, author.ID)
	return comment, nil
}

// List thread of parentID, oldest first
func (s *CommentService) List(ctx context.Context, parentID string) ([]entity.Comment, error) {
	comments, err := s.repo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// MarkRead adds userID to the readers of every comment of parentID.
// Comments already read by userID are not rewritten.
func (s *CommentService) MarkRead(ctx context.Context, parentID, userID string) (int, error) {
	if userID == "" {
		return 0, validationError("user is required")
	}
	comments, err := s.List(ctx, parentID)
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range comments {
		c := &comments[i]
		if !c.AddReader(userID) {
			continue
		}
		if err := s.repo.UpdateReadBy(ctx, c); err != nil {
			return updated, fmt.Errorf("mark comment %s read: %w", c.ID, err)
		}
		updated++
	}
	return updated, nil
}

// UnreadCount number of comments of parentID that userID has not read
func (s *CommentService) UnreadCount(ctx context.Context, parentID, userID string) (int, error) {
	comments, err := s.List(ctx, parentID)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range comments {
		if !comments[i].IsReadBy(userID) {
			n++
		}
	}
	return n, nil
}

// Author acting user of a comment
type Author struct {
	ID   string
	Name string
}

// DisplayName is the name printed on artifacts, falling back to the id
func (a Author) DisplayName() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return a.ID
}
