package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/postdeck/postdeck/internal/models"
)

type AnalyticsRepository interface {
	ListByPostID(ctx context.Context, postID int64) ([]*models.AnalyticsRecord, error)
	GetUserAnalytics(ctx context.Context, userID int64, startDate, endDate time.Time) ([]byte, error)
}

type analyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.AnalyticsRecord, error) {
	query := `SELECT id, post_id, platform, likes, shares, comments, impressions, reach, created_at
		FROM analytics WHERE post_id = $1`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []*models.AnalyticsRecord
	for rows.Next() {
		var rec models.AnalyticsRecord
		err := rows.Scan(&rec.ID, &rec.PostID, &rec.Platform, &rec.Likes, &rec.Shares,
			&rec.Comments, &rec.Impressions, &rec.Reach, &rec.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// GetUserAnalytics calls the aggregation function owned by the database.
// The raw JSON is parsed by the service, not here.
func (r *analyticsRepository) GetUserAnalytics(ctx context.Context, userID int64, startDate, endDate time.Time) ([]byte, error) {
	query := `SELECT get_user_analytics($1, $2, $3)`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, userID, startDate, endDate).Scan(&payload)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return payload, nil
}
