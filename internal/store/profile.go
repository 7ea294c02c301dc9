package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/models"
)

// GetProfile returns the stored profile, or apperr.ErrNotFound before one
// has been saved.
func (db *DB) GetProfile(ctx context.Context) (models.Profile, error) {
	return getProfile(ctx, db.conn)
}

func getProfile(ctx context.Context, q querier) (models.Profile, error) {
	var p models.Profile
	err := q.QueryRowContext(ctx, `
		SELECT name, email, weapon_primary, division, club, coach, created_at, updated_at
		FROM profile WHERE id = 1
	`).Scan(&p.Name, &p.Email, &p.WeaponPrimary, &p.Division, &p.Club, &p.Coach, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("store: profile: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("store: get profile: %w", err)
	}
	return p, nil
}

// PutProfile creates or replaces the profile. The original creation time is
// kept on replace.
func (db *DB) PutProfile(ctx context.Context, p models.Profile) error {
	return putProfile(ctx, db.conn, p)
}

func putProfile(ctx context.Context, q querier, p models.Profile) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO profile (id, name, email, weapon_primary, division, club, coach, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name           = excluded.name,
			email          = excluded.email,
			weapon_primary = excluded.weapon_primary,
			division       = excluded.division,
			club           = excluded.club,
			coach          = excluded.coach,
			updated_at     = excluded.updated_at
	`, p.Name, p.Email, string(p.WeaponPrimary), p.Division, p.Club, p.Coach, utc(p.CreatedAt), utc(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: put profile: %w", mapErr(err))
	}
	return nil
}
