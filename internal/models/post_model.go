package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID              int64           `db:"id" json:"id"`
	UserID          int64           `db:"user_id" json:"user_id"`
	Content         string          `db:"content" json:"content"`
	MediaURLs       pq.StringArray  `db:"media_urls" json:"media_urls"`
	ScheduledFor    time.Time       `db:"scheduled_for" json:"scheduled_for"`
	PublishedAt     sql.NullTime    `db:"published_at" json:"published_at"`
	Status          string          `db:"status" json:"status"`
	Platforms       pq.StringArray  `db:"platforms" json:"platforms"`
	PlatformPostIDs json.RawMessage `db:"platform_post_ids" json:"platform_post_ids"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)
