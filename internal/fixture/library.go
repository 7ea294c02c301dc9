package fixture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/models"
	"github.com/starford/balestra/internal/storage"
)

// SnapshotDir is the data-directory folder holding saved snapshots.
const SnapshotDir = "snapshots"

var snapshotName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*\.ya?ml$`)

// Library manages named YAML snapshots under SnapshotDir.
type Library struct {
	files storage.Provider
	now   func() time.Time
}

// NewLibrary creates a Library over files.
func NewLibrary(files storage.Provider) *Library {
	return &Library{files: files, now: func() time.Time { return time.Now().UTC() }}
}

// ValidateName checks that name is a plain YAML file name.
func ValidateName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.RuneLength(1, 100),
		validation.Match(snapshotName).Error("must be a file name ending in .yaml"),
	)
	if err != nil {
		return apperr.NewValidationError("name", err.Error())
	}
	return nil
}

// List returns the saved snapshots, newest first. Paths are bare file names.
func (l *Library) List() ([]storage.FileInfo, error) {
	items, err := l.files.List(SnapshotDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if items == nil {
		return []storage.FileInfo{}, nil
	}
	for i := range items {
		items[i].Path = filepath.Base(items[i].Path)
	}
	slices.SortFunc(items, func(a, b storage.FileInfo) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return items, nil
}

// Save writes snap under name. An empty name is replaced by a timestamped
// one. It returns the name used.
func (l *Library) Save(name string, snap models.Snapshot) (string, error) {
	if name == "" {
		name = "snapshot-" + l.now().Format("20060102-150405") + ".yaml"
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if err := Save(l.files, path.Join(SnapshotDir, name), snap); err != nil {
		return "", fmt.Errorf("fixture: save snapshot: %w", err)
	}
	return name, nil
}

// Read returns the raw YAML of a snapshot.
func (l *Library) Read(name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := l.files.Read(path.Join(SnapshotDir, name))
	if err != nil {
		return nil, notFound(err)
	}
	return data, nil
}

// Restore imports the snapshot name into dst, replacing all stored data.
func (l *Library) Restore(ctx context.Context, name string, dst Importer) error {
	data, err := l.Read(name)
	if err != nil {
		return err
	}
	snap, err := Decode(data)
	if err != nil {
		return apperr.NewValidationError("snapshot", err.Error())
	}
	return dst.Import(ctx, snap)
}

// Delete removes the snapshot name.
func (l *Library) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := l.files.Delete(path.Join(SnapshotDir, name)); err != nil {
		return notFound(err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("fixture: snapshot: %w", apperr.ErrNotFound)
	}
	return err
}
