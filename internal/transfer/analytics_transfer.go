package transfer

// PostAnalytics sums the ingested metrics rows of a single post.
type PostAnalytics struct {
	PostID           int64 `json:"post_id"`
	TotalLikes       int64 `json:"total_likes"`
	TotalShares      int64 `json:"total_shares"`
	TotalComments    int64 `json:"total_comments"`
	TotalImpressions int64 `json:"total_impressions"`
	TotalReach       int64 `json:"total_reach"`
}

type PlatformStats struct {
	EngagementRate float64 `json:"engagement_rate"`
}

type TopPost struct {
	ID              int64    `json:"id"`
	Content         string   `json:"content"`
	TotalEngagement int64    `json:"total_engagement"`
	Platforms       []string `json:"platforms"`
}

// UserAnalytics is the explicit schema for the get_user_analytics SQL
// function. Responses are parsed into it at the boundary instead of being
// passed through as loose JSON.
type UserAnalytics struct {
	TotalImpressions int64                    `json:"total_impressions"`
	TotalEngagement  int64                    `json:"total_engagement"`
	TotalShares      int64                    `json:"total_shares"`
	TotalComments    int64                    `json:"total_comments"`
	PlatformStats    map[string]PlatformStats `json:"platform_stats"`
	TopPosts         []TopPost                `json:"top_posts"`
}
