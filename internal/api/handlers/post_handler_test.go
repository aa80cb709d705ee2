package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/postdeck/postdeck/internal/models"
	"github.com/postdeck/postdeck/internal/queue"
	"github.com/postdeck/postdeck/internal/service"
	"github.com/postdeck/postdeck/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPostService struct {
	mock.Mock
}

var _ service.PostService = (*MockPostService)(nil)

func (m *MockPostService) Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.Post, time.Duration, error) {
	args := m.Called(ctx, userID, pc)
	if args.Get(0) == nil {
		return nil, args.Get(1).(time.Duration), args.Error(2)
	}
	return args.Get(0).(*models.Post), args.Get(1).(time.Duration), args.Error(2)
}

func (m *MockPostService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, userID, postID int64, upd *transfer.PostUpdate) (*models.Post, error) {
	args := m.Called(ctx, userID, postID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Remove(ctx context.Context, userID, postID int64) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

type MockEnqueuer struct {
	mock.Mock
}

var _ queue.Enqueuer = (*MockEnqueuer)(nil)

func (m *MockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

func postTestApp(ps service.PostService, enq queue.Enqueuer) *fiber.App {
	h := NewPostHandler(ps, enq)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "7")
		return c.Next()
	})
	app.Post("/posts/create", h.CreatePost)
	app.Post("/posts/update", h.UpdatePost)
	return app
}

func publishTaskFor(postID int64) interface{} {
	return mock.MatchedBy(func(task *asynq.Task) bool {
		if task.Type() != queue.TaskTypePublishPost {
			return false
		}
		var payload queue.PublishPostPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return false
		}
		return payload.PostID == postID
	})
}

func TestCreatePostEnqueuesScheduled(t *testing.T) {
	ps := new(MockPostService)
	enq := new(MockEnqueuer)
	app := postTestApp(ps, enq)

	post := &models.Post{ID: 11, UserID: 7, Status: models.PostStatusScheduled}
	ps.On("Create", mock.Anything, int64(7), mock.Anything).Return(post, 2*time.Hour, nil)
	enq.On("Enqueue", publishTaskFor(11), mock.Anything).Return(&asynq.TaskInfo{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/posts/create",
		strings.NewReader(`{"content": "Hello", "scheduled_for": "2026-10-01T09:00", "platforms": ["twitter"]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	enq.AssertExpectations(t)
}

// Moving a draft into scheduled state through an update must reach the
// publish queue the same way creation does.
func TestUpdatePostEnqueuesWhenScheduled(t *testing.T) {
	ps := new(MockPostService)
	enq := new(MockEnqueuer)
	app := postTestApp(ps, enq)

	scheduledFor := time.Now().Add(3 * time.Hour)
	post := &models.Post{ID: 11, UserID: 7, Status: models.PostStatusScheduled, ScheduledFor: scheduledFor}
	ps.On("Update", mock.Anything, int64(7), int64(11), mock.Anything).Return(post, nil)
	enq.On("Enqueue", publishTaskFor(11), mock.MatchedBy(func(opts []asynq.Option) bool {
		if len(opts) != 1 {
			return false
		}
		delay, ok := opts[0].Value().(time.Duration)
		return ok && delay > 2*time.Hour && delay <= 3*time.Hour
	})).Return(&asynq.TaskInfo{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/posts/update?id=11",
		strings.NewReader(`{"status": "scheduled"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	enq.AssertExpectations(t)
}

func TestUpdatePostDraftDoesNotEnqueue(t *testing.T) {
	ps := new(MockPostService)
	enq := new(MockEnqueuer)
	app := postTestApp(ps, enq)

	post := &models.Post{ID: 11, UserID: 7, Status: models.PostStatusDraft}
	ps.On("Update", mock.Anything, int64(7), int64(11), mock.Anything).Return(post, nil)

	req := httptest.NewRequest(http.MethodPost, "/posts/update?id=11",
		strings.NewReader(`{"status": "draft"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	enq.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}
