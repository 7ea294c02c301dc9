package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "piste")
	path := write(t, t.TempDir(), "c.yaml", "name: ${SAMPLE_NAME}\nport: 1\n")

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "piste" {
		t.Errorf("name = %q", s.Name)
	}
}

func TestLoad_Validates(t *testing.T) {
	path := write(t, t.TempDir(), "c.yaml", "port: 0\n")
	var s sample
	err := Load(path, &s)
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()

	s := sample{Name: "default", Port: 8080}
	if err := LoadOptional(filepath.Join(dir, "missing.yaml"), &s); err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("defaults overwritten: %+v", s)
	}

	bad := sample{}
	if err := LoadOptional(filepath.Join(dir, "missing.yaml"), &bad); err == nil {
		t.Error("invalid defaults should still fail validation")
	}

	path := write(t, dir, "c.yaml", "name: file\n")
	if err := LoadOptional(path, &s); err != nil {
		t.Fatalf("existing file: %v", err)
	}
	if s.Name != "file" || s.Port != 8080 {
		t.Errorf("merged = %+v", s)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	dir := t.TempDir()
	fallback := write(t, dir, "default.yaml", "name: fallback\nport: 1\n")

	var s sample
	if err := LoadWithDefaults(filepath.Join(dir, "missing.yaml"), fallback, &s); err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if s.Name != "fallback" {
		t.Errorf("name = %q", s.Name)
	}
	if err := LoadWithDefaults(filepath.Join(dir, "missing.yaml"), "", &s); err == nil {
		t.Error("expected error without fallback")
	}
}
