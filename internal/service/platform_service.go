package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/postdeck/postdeck/configs"
	"github.com/postdeck/postdeck/internal/models"
	"github.com/postdeck/postdeck/internal/platforms"
	"github.com/postdeck/postdeck/internal/repository"
	"github.com/postdeck/postdeck/internal/transfer"
	"github.com/postdeck/postdeck/pkg/utils"
)

type PlatformService interface {
	Connect(ctx context.Context, platform string) (authURL, state string, err error)
	HandleCallback(ctx context.Context, userID int64, platform, code, state, storedState string) error
	List(ctx context.Context, userID int64) ([]*transfer.SocialAccountInfo, error)
	Disconnect(ctx context.Context, userID, accountID int64) error
}

type platformService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
	ex  TokenExchanger
}

func NewPlatformService(cfg config.Config, sa repository.SocialAccountRepository, ex TokenExchanger) PlatformService {
	return &platformService{
		cfg: cfg,
		sa:  sa,
		ex:  ex,
	}
}

// Connect starts the OAuth flow: a fresh state nonce plus the platform's
// authorization URL. The handler keeps the nonce in the one-shot state
// cookie; execution resumes in HandleCallback after the redirect.
func (s *platformService) Connect(ctx context.Context, platform string) (string, string, error) {
	p, ok := platforms.Get(platform)
	if !ok {
		slog.Info("connect attempt for unknown platform", "platform", platform)
		return "", "", ErrInvalidPlatform
	}

	state, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", "", err
	}

	authURL := p.AuthCodeURL(s.cfg.Platforms[platform].ClientID, s.cfg.AppOrigin, state)
	return authURL, state, nil
}

// HandleCallback completes the flow started by Connect. Steps run in
// order and each failure is terminal: platform validation, CSRF state
// check, code presence, token exchange, upsert. The state cookie has
// already been consumed by the handler before this runs.
func (s *platformService) HandleCallback(ctx context.Context, userID int64, platform, code, state, storedState string) error {
	p, ok := platforms.Get(platform)
	if !ok {
		slog.Info("callback for unknown platform", "platform", platform)
		return ErrInvalidPlatform
	}

	if storedState == "" || state == "" || storedState != state {
		slog.Info("oauth state mismatch", "platform", platform)
		return ErrStateMismatch
	}

	if code == "" {
		return ErrMissingCode
	}

	result, err := s.ex.Exchange(ctx, p, code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExchange, err)
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(result.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	encryptedRefreshToken, err := utils.Encrypt([]byte(result.RefreshToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	account := &models.SocialAccount{
		UserID:           userID,
		Platform:         p.Name,
		AccessToken:      encryptedAccessToken,
		RefreshToken:     encryptedRefreshToken,
		ExpiresAt:        result.ExpiresAt,
		PlatformUserID:   result.UserID,
		PlatformUsername: result.Username,
	}

	if _, err := s.sa.Upsert(ctx, account); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return nil
}

func (s *platformService) List(ctx context.Context, userID int64) ([]*transfer.SocialAccountInfo, error) {
	if userID == 0 {
		err := errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	accounts, err := s.sa.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting social accounts")
	}

	now := time.Now()
	infos := make([]*transfer.SocialAccountInfo, 0, len(accounts))
	for _, acc := range accounts {
		infos = append(infos, &transfer.SocialAccountInfo{
			ID:        acc.ID,
			Platform:  acc.Platform,
			Username:  acc.PlatformUsername,
			ExpiresAt: acc.ExpiresAt,
			Connected: acc.Connected(now),
		})
	}

	return infos, nil
}

func (s *platformService) Disconnect(ctx context.Context, userID, accountID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return err
	}

	if accountID == 0 {
		err = errors.New("AccountID is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.sa.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		slog.Info("disconnect attempt for foreign or missing account", "account_id", accountID)
		return ErrNotFound
	}

	err = s.sa.Remove(ctx, accountID)
	if err != nil {
		return fmt.Errorf("Error removing account Info")
	}

	return nil
}
