package transfer

type PostCreation struct {
	Content      string   `json:"content"`
	MediaURLs    []string `json:"media_urls"`
	ScheduledFor string   `json:"scheduled_for"`
	Platforms    []string `json:"platforms"`
	Status       string   `json:"status"`
}

// PostUpdate patches only the fields present in the request body.
type PostUpdate struct {
	Content      *string   `json:"content"`
	MediaURLs    *[]string `json:"media_urls"`
	ScheduledFor *string   `json:"scheduled_for"`
	Platforms    *[]string `json:"platforms"`
	Status       *string   `json:"status"`
}

// BulkDraft is one parsed CSV row, held by the client until submitted.
type BulkDraft struct {
	ID           string   `json:"id"`
	Content      string   `json:"content"`
	ScheduledFor string   `json:"scheduled_for"`
	Platforms    []string `json:"platforms"`
}
