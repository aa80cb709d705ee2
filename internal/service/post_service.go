package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/postdeck/postdeck/internal/models"
	"github.com/postdeck/postdeck/internal/platforms"
	"github.com/postdeck/postdeck/internal/repository"
	"github.com/postdeck/postdeck/internal/transfer"
)

const scheduledForLayout = "2006-01-02T15:04"

type PostService interface {
	Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.Post, time.Duration, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	Update(ctx context.Context, userID, postID int64, upd *transfer.PostUpdate) (*models.Post, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	pr repository.PostRepository
	sa repository.SocialAccountRepository
}

func NewPostService(pr repository.PostRepository, sa repository.SocialAccountRepository) PostService {
	return &postService{
		pr: pr,
		sa: sa,
	}
}

// Create validates, inserts and re-reads the stored row so the caller
// sees server-assigned fields. The returned delay is the wait until
// scheduled_for for the publish queue.
func (s *postService) Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.Post, time.Duration, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return nil, 0, err
	}
	if pc.Content == "" {
		err := fmt.Errorf("%w: content cannot be empty", ErrValidation)
		slog.Info(err.Error())
		return nil, 0, err
	}

	scheduledFor, err := time.Parse(scheduledForLayout, pc.ScheduledFor)
	if err != nil {
		err = fmt.Errorf("%w: invalid scheduled time format", ErrValidation)
		slog.Info(err.Error())
		return nil, 0, err
	}

	if err := s.checkPlatforms(ctx, userID, pc.Platforms); err != nil {
		return nil, 0, err
	}

	status := pc.Status
	if status == "" {
		status = models.PostStatusScheduled
	}
	if status != models.PostStatusDraft && status != models.PostStatusScheduled {
		err = fmt.Errorf("%w: new posts must be draft or scheduled", ErrValidation)
		slog.Info(err.Error())
		return nil, 0, err
	}

	post := models.Post{
		UserID:       userID,
		Content:      pc.Content,
		MediaURLs:    pc.MediaURLs,
		ScheduledFor: scheduledFor,
		Status:       status,
		Platforms:    pc.Platforms,
	}

	postID, err := s.pr.Create(ctx, &post)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating post: %w", err)
	}

	created, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	if created == nil {
		err = fmt.Errorf("post %d missing after insert", postID)
		slog.Error(err.Error())
		return nil, 0, err
	}

	delay := time.Until(scheduledFor)
	if delay < 0 {
		delay = 0
	}

	return created, delay, nil
}

// checkPlatforms enforces the form-level invariant: the platform set is
// non-empty and every entry has a currently connected account.
func (s *postService) checkPlatforms(ctx context.Context, userID int64, selected []string) error {
	if len(selected) == 0 {
		err := fmt.Errorf("%w: select at least one platform", ErrValidation)
		slog.Info(err.Error())
		return err
	}

	accounts, err := s.sa.ListByUserID(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	connected := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		if acc.Connected(now) {
			connected[acc.Platform] = true
		}
	}

	for _, name := range selected {
		if _, ok := platforms.Get(name); !ok {
			return fmt.Errorf("%w: %v", ErrValidation, ErrInvalidPlatform)
		}
		if !connected[name] {
			err := fmt.Errorf("%w: %s is not connected", ErrValidation, name)
			slog.Info(err.Error())
			return err
		}
	}

	return nil
}

// List returns the user's posts sorted by scheduled_for ascending. The
// repository already orders, sorting here keeps the contract for any
// backing implementation.
func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting posts")
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].ScheduledFor.Before(posts[j].ScheduledFor)
	})

	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	var err error

	if userID == 0 {
		err = errors.New("User is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	if postID == 0 {
		err = errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if !isValid {
		slog.Info("post lookup for foreign or missing post", "post_id", postID)
		return nil, ErrNotFound
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("Error getting post info")
	}
	if post == nil {
		return nil, ErrNotFound
	}

	return post, nil
}

func (s *postService) Update(ctx context.Context, userID, postID int64, upd *transfer.PostUpdate) (*models.Post, error) {
	post, err := s.PostInfo(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if upd.Content != nil {
		if *upd.Content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
		}
		post.Content = *upd.Content
	}
	if upd.MediaURLs != nil {
		post.MediaURLs = *upd.MediaURLs
	}
	if upd.ScheduledFor != nil {
		scheduledFor, err := time.Parse(scheduledForLayout, *upd.ScheduledFor)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid scheduled time format", ErrValidation)
		}
		post.ScheduledFor = scheduledFor
	}
	if upd.Platforms != nil {
		if err := s.checkPlatforms(ctx, userID, *upd.Platforms); err != nil {
			return nil, err
		}
		post.Platforms = *upd.Platforms
	}
	if upd.Status != nil && *upd.Status != post.Status {
		// Settled posts never transition backward, and the worker is
		// the only writer of the published and failed states.
		if post.Status == models.PostStatusPublished || post.Status == models.PostStatusFailed {
			return nil, fmt.Errorf("%w: %s posts cannot be rescheduled", ErrValidation, post.Status)
		}
		if *upd.Status != models.PostStatusDraft && *upd.Status != models.PostStatusScheduled {
			return nil, fmt.Errorf("%w: posts can only be set to draft or scheduled", ErrValidation)
		}
		post.Status = *upd.Status
	}

	if err := s.pr.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	updated, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	return updated, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("User is not valid")
		slog.Info(err.Error())
		return err
	}

	if postID == 0 {
		err = errors.New("post_id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		slog.Info("remove attempt for foreign or missing post", "post_id", postID)
		return ErrNotFound
	}

	err = s.pr.Remove(ctx, postID)
	if err != nil {
		return fmt.Errorf("Error removing post")
	}

	return nil
}
