package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	config "github.com/postdeck/postdeck/configs"
	"github.com/postdeck/postdeck/internal/models"
	"github.com/postdeck/postdeck/internal/platforms"
	"github.com/postdeck/postdeck/internal/repository"
	"github.com/postdeck/postdeck/pkg/utils"
	"golang.org/x/oauth2"
)

type TokenRefreshJob struct {
	cfg config.Config
	sr  repository.SocialAccountRepository
}

func NewTokenRefreshJob(cfg config.Config, sr repository.SocialAccountRepository) *TokenRefreshJob {
	return &TokenRefreshJob{
		cfg: cfg,
		sr:  sr,
	}
}

// RefreshTokens sweeps accounts whose tokens expire within the next 30
// minutes and renews them via the refresh_token grant. Failures are
// logged and skipped; the next sweep retries naturally.
func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.sr.ListByTimeInterval(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.refreshAccount(ctx, acc); err != nil {
				slog.Info("Unable to refresh tokens", "platform", acc.Platform, "account_id", acc.ID)
			}
		}(acc)
	}

	wg.Wait()
}

func (c *TokenRefreshJob) refreshAccount(ctx context.Context, acc *models.SocialAccount) error {
	p, ok := platforms.Get(acc.Platform)
	if !ok {
		return nil
	}

	refreshToken, err := utils.Decrypt(acc.RefreshToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	client := c.cfg.Platforms[acc.Platform]
	conf := &oauth2.Config{
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  p.AuthURL,
			TokenURL: p.TokenURL,
		},
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	encryptedRefreshToken := ""
	if token.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(token.RefreshToken), []byte(c.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	return c.sr.SetToken(ctx, acc.ID, &models.SocialAccount{
		AccessToken:  encryptedAccessToken,
		RefreshToken: encryptedRefreshToken,
		ExpiresAt:    token.Expiry,
	})
}
