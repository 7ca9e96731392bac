package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/sse"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/testutil"
)

var (
	alice = service.Author{ID: "alice", Name: "Alice"}
	bob   = service.Author{ID: "bob", Name: "Bob"}
)

func TestPostCommentValidation(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()
	var ve *service.ValidationError

	_, err := env.Services.Comment.Post(ctx, "", alice, &service.PostCommentRequest{Message: "hi"})
	assert.True(t, errors.As(err, &ve))
	_, err = env.Services.Comment.Post(ctx, "rec1", service.Author{}, &service.PostCommentRequest{Message: "hi"})
	assert.True(t, errors.As(err, &ve))
	_, err = env.Services.Comment.Post(ctx, "rec1", alice, &service.PostCommentRequest{Message: "  "})
	assert.True(t, errors.As(err, &ve))
}

func TestPostCommentLengthLimit(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()

	_, err := env.Services.Comment.Post(ctx, "rec1", alice, &service.PostCommentRequest{Message: strings.Repeat("a", entity.CommentMaxLength+1)})
	var ve *service.ValidationError
	require.True(t, errors.As(err, &ve))

	c, err := env.Services.Comment.Post(ctx, "rec1", alice, &service.PostCommentRequest{Message: strings.Repeat("é", entity.CommentMaxLength)})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, []string(c.ReadBy))
}

func TestCommentsListedOldestFirst(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()
	for _, msg := range []string{"first", "second", "third"} {
		_, err := env.Services.Comment.Post(ctx, "rec1", alice, &service.PostCommentRequest{Message: msg})
		require.NoError(t, err)
	}
	_, err := env.Services.Comment.Post(ctx, "rec2", alice, &service.PostCommentRequest{Message: "elsewhere"})
	require.NoError(t, err)

	comments, err := env.Services.Comment.List(ctx, "rec1")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Message)
	assert.Equal(t, "third", comments[2].Message)
}

func TestMarkReadAuthorsNeverUnread(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()

	_, err := env.Services.Comment.Post(ctx, "rec1", alice, &service.PostCommentRequest{Message: "from alice"})
	require.NoError(t, err)
	_, err = env.Services.Comment.Post(ctx, "rec1", bob, &service.PostCommentRequest{Message: "from bob"})
	require.NoError(t, err)

	updated, err := env.Services.Comment.MarkRead(ctx, "rec1", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	unread, err := env.Services.Comment.UnreadCount(ctx, "rec1", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	unread, err = env.Services.Comment.UnreadCount(ctx, "rec1", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread, "bob has not read alice's comment but never has his own unread")
}

func TestMarkReadIsIdempotent(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()
	_, err := env.Services.Comment.Post(ctx, "rec1", alice, &service.PostCommentRequest{Message: "hello"})
	require.NoError(t, err)

	_, err = env.Services.Comment.MarkRead(ctx, "rec1", bob.ID)
	require.NoError(t, err)
	updated, err := env.Services.Comment.MarkRead(ctx, "rec1", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	comments, err := env.Services.Comment.List(ctx, "rec1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, []string(comments[0].ReadBy))
}

func TestPostCommentPublishesEvent(t *testing.T) {
	env := testutil.NewTestEnv(t)
	client := &sse.Client{ID: "c1", UserID: "bob", Events: make(chan sse.Event, 1)}
	env.Hub.Register(client)

	_, err := env.Services.Comment.Post(context.Background(), "rec1", alice, &service.PostCommentRequest{Message: "hello"})
	require.NoError(t, err)

	ev := <-client.Events
	assert.Equal(t, sse.EventCommentPosted, ev.EventType)
	assert.Contains(t, ev.Data, `"parent_id":"rec1"`)
}
