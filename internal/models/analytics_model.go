package models

import "time"

// AnalyticsRecord is one ingested metrics row per (post, platform).
// Rows are immutable once written; aggregation happens at read time.
type AnalyticsRecord struct {
	ID          int64     `db:"id" json:"id"`
	PostID      int64     `db:"post_id" json:"post_id"`
	Platform    string    `db:"platform" json:"platform"`
	Likes       int64     `db:"likes" json:"likes"`
	Shares      int64     `db:"shares" json:"shares"`
	Comments    int64     `db:"comments" json:"comments"`
	Impressions int64     `db:"impressions" json:"impressions"`
	Reach       int64     `db:"reach" json:"reach"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
