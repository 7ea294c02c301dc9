package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/models"
)

const boutColumns = `id, opponent_name, opponent_nickname, opponent_weapon, opponent_ranking,
	opponent_division, date, location, tournament_name, weapon, user_score, opponent_score,
	won, notes, type, equipment_used, created_at, updated_at`

func scanBout(s scanner) (models.Bout, error) {
	var b models.Bout
	err := s.Scan(&b.ID, &b.OpponentName, &b.OpponentNickname, &b.OpponentWeapon, &b.OpponentRanking,
		&b.OpponentDivision, &b.Date, &b.Location, &b.TournamentName, &b.Weapon, &b.UserScore,
		&b.OpponentScore, &b.Won, &b.Notes, &b.Type, &b.EquipmentUsed, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// ListBouts returns every bout, most recent date first.
func (db *DB) ListBouts(ctx context.Context) ([]models.Bout, error) {
	return listBouts(ctx, db.conn)
}

func listBouts(ctx context.Context, q querier) ([]models.Bout, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+boutColumns+` FROM bouts ORDER BY date DESC, created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list bouts: %w", err)
	}
	defer rows.Close()

	out := []models.Bout{}
	for rows.Next() {
		b, err := scanBout(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan bout: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBout returns one bout.
func (db *DB) GetBout(ctx context.Context, id string) (models.Bout, error) {
	b, err := scanBout(db.conn.QueryRowContext(ctx, `SELECT `+boutColumns+` FROM bouts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return b, fmt.Errorf("store: bout %q: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return b, fmt.Errorf("store: get bout: %w", err)
	}
	return b, nil
}

// CreateBout inserts b.
func (db *DB) CreateBout(ctx context.Context, b models.Bout) error {
	return insertBout(ctx, db.conn, b)
}

func insertBout(ctx context.Context, q querier, b models.Bout) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO bouts (`+boutColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.OpponentName, b.OpponentNickname, string(b.OpponentWeapon), b.OpponentRanking,
		b.OpponentDivision, utc(b.Date), b.Location, b.TournamentName, string(b.Weapon), b.UserScore,
		b.OpponentScore, b.Won, b.Notes, string(b.Type), b.EquipmentUsed, utc(b.CreatedAt), utc(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: insert bout: %w", mapErr(err))
	}
	return nil
}

// DeleteBout removes a bout.
func (db *DB) DeleteBout(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM bouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete bout: %w", err)
	}
	return affected(res, "bout", id)
}
