package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/models"
)

const equipmentColumns = `id, type, subtype, brand, model, purchase_date, cost, status, notes,
	is_equipped, weapon, created_at, updated_at`

const reminderColumns = `id, equipment_id, type, description, due_date, completed`

type scanner interface {
	Scan(dest ...any) error
}

func scanEquipment(s scanner) (models.Equipment, error) {
	var (
		e        models.Equipment
		purchase sql.NullTime
		cost     sql.NullFloat64
	)
	err := s.Scan(&e.ID, &e.Category, &e.Subtype, &e.Brand, &e.Model, &purchase, &cost,
		&e.Status, &e.Notes, &e.IsEquipped, &e.Weapon, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	if purchase.Valid {
		t := purchase.Time
		e.PurchaseDate = &t
	}
	if cost.Valid {
		c := cost.Float64
		e.Cost = &c
	}
	e.MaintenanceReminders = []models.MaintenanceReminder{}
	return e, nil
}

// ListEquipment returns every item in insertion order, reminders included.
func (db *DB) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	return listEquipment(ctx, db.conn)
}

func listEquipment(ctx context.Context, q querier) ([]models.Equipment, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+equipmentColumns+` FROM equipment ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list equipment: %w", err)
	}
	out := []models.Equipment{}
	pos := make(map[string]int)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("store: scan equipment: %w", err)
		}
		pos[e.ID] = len(out)
		out = append(out, e)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list equipment: %w", err)
	}

	reminders, err := queryReminders(ctx, q, `SELECT `+reminderColumns+` FROM maintenance_reminders ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	for _, r := range reminders {
		if i, ok := pos[r.EquipmentID]; ok {
			out[i].MaintenanceReminders = append(out[i].MaintenanceReminders, r)
		}
	}
	return out, nil
}

func queryReminders(ctx context.Context, q querier, query string, args ...any) ([]models.MaintenanceReminder, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list reminders: %w", err)
	}
	defer rows.Close()

	var out []models.MaintenanceReminder
	for rows.Next() {
		var r models.MaintenanceReminder
		if err := rows.Scan(&r.ID, &r.EquipmentID, &r.Type, &r.Description, &r.DueDate, &r.Completed); err != nil {
			return nil, fmt.Errorf("store: scan reminder: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetEquipment returns one item with its reminders.
func (db *DB) GetEquipment(ctx context.Context, id string) (models.Equipment, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id = ?`, id)
	e, err := scanEquipment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("store: equipment %q: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return e, fmt.Errorf("store: get equipment: %w", err)
	}
	reminders, err := queryReminders(ctx, db.conn,
		`SELECT `+reminderColumns+` FROM maintenance_reminders WHERE equipment_id = ? ORDER BY rowid`, id)
	if err != nil {
		return e, err
	}
	e.MaintenanceReminders = append(e.MaintenanceReminders, reminders...)
	return e, nil
}

// CreateEquipment inserts e and its reminders. When e is equipped and
// exclusive is set, other items of its category are unequipped in the same
// transaction.
func (db *DB) CreateEquipment(ctx context.Context, e models.Equipment, exclusive bool) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if e.IsEquipped && exclusive {
			if err := unequipSiblings(ctx, tx, string(e.Category), e.ID, e.UpdatedAt); err != nil {
				return err
			}
		}
		return insertEquipment(ctx, tx, e)
	})
}

func insertEquipment(ctx context.Context, q querier, e models.Equipment) error {
	var purchase any
	if e.PurchaseDate != nil {
		purchase = utc(*e.PurchaseDate)
	}
	var cost any
	if e.Cost != nil {
		cost = *e.Cost
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO equipment (`+equipmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Category), e.Subtype, e.Brand, e.Model, purchase, cost, string(e.Status), e.Notes,
		e.IsEquipped, string(e.Weapon), utc(e.CreatedAt), utc(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: insert equipment: %w", mapErr(err))
	}
	for _, r := range e.MaintenanceReminders {
		r.EquipmentID = e.ID
		if err := insertReminder(ctx, q, r); err != nil {
			return err
		}
	}
	return nil
}

func insertReminder(ctx context.Context, q querier, r models.MaintenanceReminder) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO maintenance_reminders (`+reminderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.EquipmentID, r.Type, r.Description, utc(r.DueDate), r.Completed)
	if err != nil {
		return fmt.Errorf("store: insert reminder: %w", mapErr(err))
	}
	return nil
}

// UpdateEquipment overwrites the editable fields of e. Reminders, the
// equipped flag and the creation time are left untouched.
func (db *DB) UpdateEquipment(ctx context.Context, e models.Equipment) error {
	var purchase any
	if e.PurchaseDate != nil {
		purchase = utc(*e.PurchaseDate)
	}
	var cost any
	if e.Cost != nil {
		cost = *e.Cost
	}
	res, err := db.conn.ExecContext(ctx, `
		UPDATE equipment SET
			type = ?, subtype = ?, brand = ?, model = ?, purchase_date = ?, cost = ?,
			status = ?, notes = ?, weapon = ?, updated_at = ?
		WHERE id = ?
	`, string(e.Category), e.Subtype, e.Brand, e.Model, purchase, cost,
		string(e.Status), e.Notes, string(e.Weapon), utc(e.UpdatedAt), e.ID)
	if err != nil {
		return fmt.Errorf("store: update equipment: %w", mapErr(err))
	}
	return affected(res, "equipment", e.ID)
}

// DeleteEquipment removes an item and its reminders.
func (db *DB) DeleteEquipment(ctx context.Context, id string) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM maintenance_reminders WHERE equipment_id = ?`, id); err != nil {
			return fmt.Errorf("store: delete reminders: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM equipment WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("store: delete equipment: %w", err)
		}
		return affected(res, "equipment", id)
	})
}

// SetEquipped marks an item as equipped or not. When exclusive is set and the
// item is being equipped, every other item of the same category is
// unequipped in the same transaction.
func (db *DB) SetEquipped(ctx context.Context, id string, equipped, exclusive bool, now time.Time) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var category string
		err := tx.QueryRowContext(ctx, `SELECT type FROM equipment WHERE id = ?`, id).Scan(&category)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("store: equipment %q: %w", id, apperr.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("store: set equipped: %w", err)
		}
		if equipped && exclusive {
			if err := unequipSiblings(ctx, tx, category, id, now); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx, `UPDATE equipment SET is_equipped = ?, updated_at = ? WHERE id = ?`,
			equipped, utc(now), id)
		if err != nil {
			return fmt.Errorf("store: set equipped: %w", err)
		}
		return nil
	})
}

func unequipSiblings(ctx context.Context, q querier, category, id string, now time.Time) error {
	_, err := q.ExecContext(ctx, `
		UPDATE equipment SET is_equipped = 0, updated_at = ?
		WHERE type = ? AND id <> ? AND is_equipped = 1
	`, utc(now), category, id)
	if err != nil {
		return fmt.Errorf("store: unequip siblings: %w", err)
	}
	return nil
}

// AddReminder attaches r to its equipment item.
func (db *DB) AddReminder(ctx context.Context, r models.MaintenanceReminder, now time.Time) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE equipment SET updated_at = ? WHERE id = ?`, utc(now), r.EquipmentID)
		if err != nil {
			return fmt.Errorf("store: touch equipment: %w", err)
		}
		if err := affected(res, "equipment", r.EquipmentID); err != nil {
			return err
		}
		return insertReminder(ctx, tx, r)
	})
}

// CompleteReminder marks a reminder of the given item as done.
func (db *DB) CompleteReminder(ctx context.Context, equipmentID, reminderID string, now time.Time) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE maintenance_reminders SET completed = 1 WHERE id = ? AND equipment_id = ?`,
			reminderID, equipmentID)
		if err != nil {
			return fmt.Errorf("store: complete reminder: %w", err)
		}
		if err := affected(res, "reminder", reminderID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE equipment SET updated_at = ? WHERE id = ?`, utc(now), equipmentID)
		if err != nil {
			return fmt.Errorf("store: touch equipment: %w", err)
		}
		return nil
	})
}
