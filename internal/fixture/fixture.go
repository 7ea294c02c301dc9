// Package fixture reads and writes YAML data snapshots and keeps the store in
// sync with a seed file.
package fixture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/starford/balestra/internal/models"
	"github.com/starford/balestra/internal/storage"
)

// Importer replaces all stored data with a snapshot.
type Importer interface {
	Import(ctx context.Context, snap models.Snapshot) error
}

// Decode parses a YAML snapshot. Unknown keys are rejected so that typos in
// hand-edited seed files surface instead of silently dropping data.
func Decode(data []byte) (models.Snapshot, error) {
	var snap models.Snapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
		return models.Snapshot{}, fmt.Errorf("fixture: decode: %w", err)
	}
	return snap, nil
}

// Encode renders snap as YAML.
func Encode(snap models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("fixture: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("fixture: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Load reads the snapshot file at path and imports it. It returns the
// checksum of the loaded content.
func Load(ctx context.Context, files storage.Provider, path string, dst Importer) (string, error) {
	data, err := files.Read(path)
	if err != nil {
		return "", err
	}
	snap, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if err := dst.Import(ctx, snap); err != nil {
		return "", fmt.Errorf("fixture: import %s: %w", path, err)
	}
	return storage.Checksum(data), nil
}

// Save encodes snap and writes it atomically to path.
func Save(files storage.Provider, path string, snap models.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	return files.Write(path, data)
}
