package queue

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/postdeck/postdeck/internal/models"
	"github.com/postdeck/postdeck/internal/platforms"
	"github.com/postdeck/postdeck/pkg/utils"
)

func (j *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return j.PublishPost(payload.PostID)
}

// PublishPost pushes a scheduled post to each of its platforms through
// the owner's connected accounts, records per-account history, and
// settles the post as published or failed. Posts never move backward:
// anything not in scheduled state is left alone.
func (j *Queue) PublishPost(postID int64) error {
	ctx := context.Background()

	post, err := j.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		log.Printf("PostID %d no longer exists, skipping publish", postID)
		return nil
	}
	if post.Status != models.PostStatusScheduled {
		log.Printf("PostID %d is %s, skipping publish", postID, post.Status)
		return nil
	}

	// scheduled_for is authoritative, not the task's fire time. A task
	// enqueued before the post was postponed lands here early; push it
	// back out for the remaining wait.
	if remaining := time.Until(post.ScheduledFor); remaining > time.Minute {
		log.Printf("PostID %d is not due for %s, re-enqueueing", postID, remaining)
		return EnqueuePost(j.client, PublishPostPayload{PostID: postID}, remaining)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, 10)

	platformPostIDs := make(map[string]string)

	publishTo := func(p platforms.Platform, acc *models.SocialAccount) {
		defer wg.Done()
		defer func() { <-semaphore }()

		history := models.PostingHistory{
			UserID:    post.UserID,
			PostID:    postID,
			AccountID: acc.ID,
		}

		accessToken, err := utils.Decrypt(acc.AccessToken, []byte(j.cfg.SecretKey))
		if err == nil {
			var externalID string
			externalID, err = j.pub.Publish(ctx, p, accessToken, post)
			if err == nil {
				history.PlatformPostID = externalID
				mu.Lock()
				platformPostIDs[p.Name] = externalID
				mu.Unlock()
			}
		}

		if err != nil {
			history.ErrorMessage = err.Error()
			log.Printf("Error posting to %s for PostID %d: %v", p.Name, postID, err)
		}
		if _, err := j.ph.Create(ctx, &history); err != nil {
			log.Printf("Error saving posting history for PostID %d: %v", postID, err)
		}
	}

	for _, name := range post.Platforms {
		p, ok := platforms.Get(name)
		if !ok {
			log.Printf("PostID %d targets unknown platform %s", postID, name)
			continue
		}

		acc, err := j.sa.GetByUserPlatform(ctx, post.UserID, name)
		if err != nil {
			log.Printf("Error retrieving %s account for PostID %d: %v", name, postID, err)
			continue
		}
		if acc == nil {
			log.Printf("No %s account connected for PostID %d", name, postID)
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}
		go publishTo(p, acc)
	}

	wg.Wait()

	status := models.PostStatusFailed
	if len(platformPostIDs) > 0 {
		status = models.PostStatusPublished
	}

	ids, err := json.Marshal(platformPostIDs)
	if err != nil {
		return err
	}

	return j.pr.MarkPublished(ctx, postID, status, time.Now(), ids)
}
