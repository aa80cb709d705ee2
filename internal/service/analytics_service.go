package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/postdeck/postdeck/internal/repository"
	"github.com/postdeck/postdeck/internal/transfer"
)

type AnalyticsService interface {
	PostSummary(ctx context.Context, userID, postID int64) (*transfer.PostAnalytics, error)
	UserSummary(ctx context.Context, userID int64, startDate, endDate time.Time) (*transfer.UserAnalytics, error)
}

type analyticsService struct {
	ar repository.AnalyticsRepository
	pr repository.PostRepository
}

func NewAnalyticsService(ar repository.AnalyticsRepository, pr repository.PostRepository) AnalyticsService {
	return &analyticsService{
		ar: ar,
		pr: pr,
	}
}

// PostSummary sums the ingested metrics rows of one post.
func (s *analyticsService) PostSummary(ctx context.Context, userID, postID int64) (*transfer.PostAnalytics, error) {
	if userID == 0 || postID == 0 {
		err := errors.New("user id and post id are required")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		slog.Info("analytics lookup for foreign or missing post", "post_id", postID)
		return nil, ErrNotFound
	}

	records, err := s.ar.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("Error getting analytics records")
	}

	summary := &transfer.PostAnalytics{PostID: postID}
	for _, rec := range records {
		summary.TotalLikes += rec.Likes
		summary.TotalShares += rec.Shares
		summary.TotalComments += rec.Comments
		summary.TotalImpressions += rec.Impressions
		summary.TotalReach += rec.Reach
	}

	return summary, nil
}

// UserSummary fetches the database-side aggregate and parses it into the
// explicit schema before anything downstream can touch it.
func (s *analyticsService) UserSummary(ctx context.Context, userID int64, startDate, endDate time.Time) (*transfer.UserAnalytics, error) {
	if userID == 0 {
		err := errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	payload, err := s.ar.GetUserAnalytics(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("Error getting user analytics")
	}

	var summary transfer.UserAnalytics
	if err := json.Unmarshal(payload, &summary); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("unexpected analytics payload: %w", err)
	}

	return &summary, nil
}
