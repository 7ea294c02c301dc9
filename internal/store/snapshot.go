package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/models"
)

// Snapshot reads the whole data set in one transaction.
func (db *DB) Snapshot(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		p, err := getProfile(ctx, tx)
		switch {
		case err == nil:
			snap.Profile = &p
		case !errors.Is(err, apperr.ErrNotFound):
			return err
		}
		if snap.Equipment, err = listEquipment(ctx, tx); err != nil {
			return err
		}
		snap.Bouts, err = listBouts(ctx, tx)
		return err
	})
	return snap, err
}

// ReplaceAll discards every stored record and loads snap in its place. On
// error nothing changes.
func (db *DB) ReplaceAll(ctx context.Context, snap models.Snapshot) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"maintenance_reminders", "equipment", "bouts", "profile"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("store: clear %s: %w", table, err)
			}
		}
		if snap.Profile != nil {
			if err := putProfile(ctx, tx, *snap.Profile); err != nil {
				return err
			}
		}
		for _, e := range snap.Equipment {
			if err := insertEquipment(ctx, tx, e); err != nil {
				return fmt.Errorf("equipment %q: %w", e.ID, err)
			}
		}
		for _, b := range snap.Bouts {
			if err := insertBout(ctx, tx, b); err != nil {
				return fmt.Errorf("bout %q: %w", b.ID, err)
			}
		}
		return nil
	})
}
