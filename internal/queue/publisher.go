package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/postdeck/postdeck/internal/models"
	"github.com/postdeck/postdeck/internal/platforms"
)

// Publisher pushes a post to one platform and returns the external
// post id.
type Publisher interface {
	Publish(ctx context.Context, p platforms.Platform, accessToken string, post *models.Post) (string, error)
}

type httpPublisher struct {
	client *http.Client
}

func NewHTTPPublisher() Publisher {
	return &httpPublisher{client: &http.Client{}}
}

type publishRequest struct {
	Text      string   `json:"text"`
	MediaURLs []string `json:"media_urls,omitempty"`
}

type publishResponse struct {
	ID   string `json:"id"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (pub *httpPublisher) Publish(ctx context.Context, p platforms.Platform, accessToken string, post *models.Post) (string, error) {
	body, err := json.Marshal(publishRequest{
		Text:      post.Content,
		MediaURLs: post.MediaURLs,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.PublishURL, bytes.NewReader(body))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := pub.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("%s publish endpoint returned status %d", p.Name, resp.StatusCode)
		slog.Info(err.Error())
		return "", err
	}

	var result publishResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	id := result.ID
	if id == "" {
		id = result.Data.ID
	}
	if id == "" {
		return "", errors.New("publish response missing post id")
	}

	return id, nil
}
