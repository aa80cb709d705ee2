package queue

import (
	"github.com/hibiken/asynq"
	config "github.com/postdeck/postdeck/configs"
	"github.com/postdeck/postdeck/internal/repository"
)

// Enqueuer is the slice of asynq.Client the queue depends on.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Queue struct {
	cfg    config.Config
	client Enqueuer
	pr     repository.PostRepository
	sa     repository.SocialAccountRepository
	ph     repository.PostingHistoryRepository
	pub    Publisher
}

func NewQueue(
	cfg config.Config,
	client Enqueuer,
	pr repository.PostRepository,
	sa repository.SocialAccountRepository,
	ph repository.PostingHistoryRepository,
	pub Publisher) *Queue {
	return &Queue{
		cfg:    cfg,
		client: client,
		pr:     pr,
		sa:     sa,
		ph:     ph,
		pub:    pub,
	}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}
