package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/postdeck/postdeck/internal/models"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Profile, bool, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, bool, error) {
	query := `SELECT id, username, full_name, avatar_url, website, role, created_at, updated_at
		FROM profiles WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var p models.Profile
	err := row.Scan(&p.ID, &p.Username, &p.FullName, &p.AvatarURL, &p.Website, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &p, true, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, username, full_name, avatar_url, website, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.Username,
		profile.FullName,
		profile.AvatarURL,
		profile.Website,
		profile.Role,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET username = $2,
			full_name = $3,
			avatar_url = $4,
			website = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.Username,
		profile.FullName,
		profile.AvatarURL,
		profile.Website,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
