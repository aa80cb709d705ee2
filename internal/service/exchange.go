package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	config "github.com/postdeck/postdeck/configs"
	"github.com/postdeck/postdeck/internal/platforms"
	"github.com/postdeck/postdeck/internal/transfer"
	"golang.org/x/oauth2"
)

// TokenExchanger trades an authorization code for tokens and resolves
// the platform-side identity of the account being connected.
type TokenExchanger interface {
	Exchange(ctx context.Context, platform platforms.Platform, code string) (*transfer.ExchangeResult, error)
}

type oauthExchanger struct {
	cfg config.Config
}

func NewTokenExchanger(cfg config.Config) TokenExchanger {
	return &oauthExchanger{cfg: cfg}
}

func (e *oauthExchanger) oauthConfig(p platforms.Platform) *oauth2.Config {
	client := e.cfg.Platforms[p.Name]
	return &oauth2.Config{
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		RedirectURL:  platforms.RedirectURI(e.cfg.AppOrigin, p.Name),
		Scopes:       p.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  p.AuthURL,
			TokenURL: p.TokenURL,
		},
	}
}

func (e *oauthExchanger) Exchange(ctx context.Context, p platforms.Platform, code string) (*transfer.ExchangeResult, error) {
	conf := e.oauthConfig(p)

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("code exchange with %s failed: %w", p.Name, err)
	}

	userID, username, err := fetchUserInfo(ctx, p, conf.Client(ctx, token))
	if err != nil {
		return nil, err
	}

	// Some providers omit expires_in; assume an hour so the refresh
	// sweep picks the account up early.
	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = GetExpiresAt(3600)
	}

	return &transfer.ExchangeResult{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
		UserID:       userID,
		Username:     username,
	}, nil
}

type userInfoResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func fetchUserInfo(ctx context.Context, p platforms.Platform, client *http.Client) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return "", "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("%s user info endpoint returned status %d", p.Name, resp.StatusCode)
		slog.Info(err.Error())
		return "", "", err
	}

	var info userInfoResponse
	if p.Name == "twitter" {
		// Twitter wraps the user object in a data envelope.
		var wrapped struct {
			Data userInfoResponse `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&wrapped); err != nil {
			slog.Info(err.Error())
			return "", "", err
		}
		info = wrapped.Data
	} else {
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			slog.Info(err.Error())
			return "", "", err
		}
	}

	if info.ID == "" {
		return "", "", errors.New("user info response missing id")
	}

	username := info.Username
	if username == "" {
		username = info.Name
	}

	return info.ID, username, nil
}
