package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	config "github.com/postdeck/postdeck/configs"
	"github.com/postdeck/postdeck/internal/models"
	"github.com/postdeck/postdeck/internal/platforms"
	"github.com/postdeck/postdeck/internal/repository"
	"github.com/postdeck/postdeck/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type MockPostRepository struct {
	mock.Mock
}

var _ repository.PostRepository = (*MockPostRepository)(nil)

func (m *MockPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) MarkPublished(ctx context.Context, postID int64, status string, publishedAt time.Time, platformPostIDs json.RawMessage) error {
	args := m.Called(ctx, postID, status, publishedAt, platformPostIDs)
	return args.Error(0)
}

func (m *MockPostRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSocialAccountRepository struct {
	mock.Mock
}

func (m *MockSocialAccountRepository) Upsert(ctx context.Context, sa *models.SocialAccount) (int64, error) {
	args := m.Called(ctx, sa)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSocialAccountRepository) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SocialAccount), args.Error(1)
}

func (m *MockSocialAccountRepository) GetByUserPlatform(ctx context.Context, userID int64, platform string) (*models.SocialAccount, error) {
	args := m.Called(ctx, userID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SocialAccount), args.Error(1)
}

func (m *MockSocialAccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SocialAccount), args.Error(1)
}

func (m *MockSocialAccountRepository) ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	args := m.Called(ctx, initialTime, finalTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SocialAccount), args.Error(1)
}

func (m *MockSocialAccountRepository) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	args := m.Called(ctx, accountID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocialAccountRepository) SetToken(ctx context.Context, accountID int64, sa *models.SocialAccount) error {
	args := m.Called(ctx, accountID, sa)
	return args.Error(0)
}

func (m *MockSocialAccountRepository) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPostingHistoryRepository struct {
	mock.Mock
}

var _ repository.PostingHistoryRepository = (*MockPostingHistoryRepository)(nil)

func (m *MockPostingHistoryRepository) Create(ctx context.Context, ph *models.PostingHistory) (int64, error) {
	args := m.Called(ctx, ph)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostingHistoryRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostingHistory, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PostingHistory), args.Error(1)
}

type MockEnqueuer struct {
	mock.Mock
}

var _ Enqueuer = (*MockEnqueuer)(nil)

func (m *MockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

var _ Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, p platforms.Platform, accessToken string, post *models.Post) (string, error) {
	args := m.Called(ctx, p, accessToken, post)
	return args.String(0), args.Error(1)
}

func encryptedToken(t *testing.T, token string) string {
	t.Helper()
	enc, err := utils.Encrypt([]byte(token), []byte(testSecretKey))
	require.NoError(t, err)
	return enc
}

func newTestQueue(client Enqueuer, pr repository.PostRepository, sa repository.SocialAccountRepository, ph repository.PostingHistoryRepository, pub Publisher) *Queue {
	cfg := config.Config{SecretKey: testSecretKey}
	return NewQueue(cfg, client, pr, sa, ph, pub)
}

func TestPublishPost(t *testing.T) {
	pr := new(MockPostRepository)
	sa := new(MockSocialAccountRepository)
	ph := new(MockPostingHistoryRepository)
	pub := new(MockPublisher)
	q := newTestQueue(nil, pr, sa, ph, pub)

	post := &models.Post{
		ID:        11,
		UserID:    7,
		Content:   "Hello out there",
		Status:    models.PostStatusScheduled,
		Platforms: []string{"twitter", "linkedin"},
	}
	pr.On("GetByID", mock.Anything, int64(11)).Return(post, nil)

	twitterAcc := &models.SocialAccount{ID: 1, UserID: 7, Platform: "twitter", AccessToken: encryptedToken(t, "tw-token")}
	linkedinAcc := &models.SocialAccount{ID: 2, UserID: 7, Platform: "linkedin", AccessToken: encryptedToken(t, "li-token")}
	sa.On("GetByUserPlatform", mock.Anything, int64(7), "twitter").Return(twitterAcc, nil)
	sa.On("GetByUserPlatform", mock.Anything, int64(7), "linkedin").Return(linkedinAcc, nil)

	pub.On("Publish", mock.Anything, mock.MatchedBy(func(p platforms.Platform) bool {
		return p.Name == "twitter"
	}), "tw-token", post).Return("tw-999", nil)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(p platforms.Platform) bool {
		return p.Name == "linkedin"
	}), "li-token", post).Return("li-888", nil)

	ph.On("Create", mock.Anything, mock.MatchedBy(func(h *models.PostingHistory) bool {
		return h.PostID == 11 && h.ErrorMessage == "" && h.PlatformPostID != ""
	})).Return(int64(1), nil).Times(2)

	pr.On("MarkPublished", mock.Anything, int64(11), models.PostStatusPublished, mock.Anything, mock.MatchedBy(func(raw json.RawMessage) bool {
		var ids map[string]string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return false
		}
		return ids["twitter"] == "tw-999" && ids["linkedin"] == "li-888"
	})).Return(nil)

	err := q.PublishPost(11)
	require.NoError(t, err)

	pr.AssertExpectations(t)
	ph.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestPublishPostSkipsNonScheduled(t *testing.T) {
	for _, status := range []string{models.PostStatusDraft, models.PostStatusPublished, models.PostStatusFailed} {
		t.Run(status, func(t *testing.T) {
			pr := new(MockPostRepository)
			pub := new(MockPublisher)
			q := newTestQueue(nil, pr, new(MockSocialAccountRepository), new(MockPostingHistoryRepository), pub)

			pr.On("GetByID", mock.Anything, int64(11)).Return(&models.Post{
				ID:        11,
				Status:    status,
				Platforms: []string{"twitter"},
			}, nil)

			err := q.PublishPost(11)
			require.NoError(t, err)

			pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			pr.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPublishPostMissingPost(t *testing.T) {
	pr := new(MockPostRepository)
	q := newTestQueue(nil, pr, new(MockSocialAccountRepository), new(MockPostingHistoryRepository), new(MockPublisher))

	pr.On("GetByID", mock.Anything, int64(11)).Return(nil, nil)

	err := q.PublishPost(11)
	require.NoError(t, err)

	pr.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishPostAllPlatformsFail(t *testing.T) {
	pr := new(MockPostRepository)
	sa := new(MockSocialAccountRepository)
	ph := new(MockPostingHistoryRepository)
	pub := new(MockPublisher)
	q := newTestQueue(nil, pr, sa, ph, pub)

	post := &models.Post{
		ID:        11,
		UserID:    7,
		Content:   "Hello",
		Status:    models.PostStatusScheduled,
		Platforms: []string{"twitter"},
	}
	pr.On("GetByID", mock.Anything, int64(11)).Return(post, nil)

	acc := &models.SocialAccount{ID: 1, UserID: 7, Platform: "twitter", AccessToken: encryptedToken(t, "tw-token")}
	sa.On("GetByUserPlatform", mock.Anything, int64(7), "twitter").Return(acc, nil)

	pub.On("Publish", mock.Anything, mock.Anything, "tw-token", post).
		Return("", errors.New("rate limited"))

	ph.On("Create", mock.Anything, mock.MatchedBy(func(h *models.PostingHistory) bool {
		return h.PostID == 11 && h.ErrorMessage != "" && h.PlatformPostID == ""
	})).Return(int64(1), nil)

	pr.On("MarkPublished", mock.Anything, int64(11), models.PostStatusFailed, mock.Anything, mock.Anything).
		Return(nil)

	err := q.PublishPost(11)
	require.NoError(t, err)

	pr.AssertExpectations(t)
	ph.AssertExpectations(t)
}

// A task can fire before scheduled_for when the post was postponed
// after enqueueing. The stored time wins: the worker pushes the task
// back out instead of publishing early.
func TestPublishPostReEnqueuesWhenNotDue(t *testing.T) {
	pr := new(MockPostRepository)
	sa := new(MockSocialAccountRepository)
	ph := new(MockPostingHistoryRepository)
	pub := new(MockPublisher)
	enq := new(MockEnqueuer)
	q := newTestQueue(enq, pr, sa, ph, pub)

	scheduledFor := time.Now().Add(7 * 24 * time.Hour)
	post := &models.Post{
		ID:           11,
		UserID:       7,
		Content:      "Hello",
		Status:       models.PostStatusScheduled,
		ScheduledFor: scheduledFor,
		Platforms:    []string{"twitter"},
	}
	pr.On("GetByID", mock.Anything, int64(11)).Return(post, nil)

	enq.On("Enqueue", mock.MatchedBy(func(task *asynq.Task) bool {
		if task.Type() != TaskTypePublishPost {
			return false
		}
		var payload PublishPostPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return false
		}
		return payload.PostID == 11
	}), mock.MatchedBy(func(opts []asynq.Option) bool {
		if len(opts) != 1 {
			return false
		}
		delay, ok := opts[0].Value().(time.Duration)
		return ok && delay > 6*24*time.Hour && delay <= 7*24*time.Hour
	})).Return(&asynq.TaskInfo{}, nil)

	err := q.PublishPost(11)
	require.NoError(t, err)

	enq.AssertExpectations(t)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	pr.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishPostSkipsUnknownPlatform(t *testing.T) {
	pr := new(MockPostRepository)
	sa := new(MockSocialAccountRepository)
	ph := new(MockPostingHistoryRepository)
	pub := new(MockPublisher)
	q := newTestQueue(nil, pr, sa, ph, pub)

	post := &models.Post{
		ID:        11,
		UserID:    7,
		Status:    models.PostStatusScheduled,
		Platforms: []string{"myspace"},
	}
	pr.On("GetByID", mock.Anything, int64(11)).Return(post, nil)
	pr.On("MarkPublished", mock.Anything, int64(11), models.PostStatusFailed, mock.Anything, mock.Anything).
		Return(nil)

	err := q.PublishPost(11)
	require.NoError(t, err)

	sa.AssertNotCalled(t, "GetByUserPlatform", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, ph.Calls)
}
