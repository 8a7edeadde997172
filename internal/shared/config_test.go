package shared_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"stayin/internal/shared"
)

func TestLoadFile_DefaultsWhenMissing(t *testing.T) {
	c, err := shared.LoadFile(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.HTTPAddr != ":8080" || c.FlashHide() != 2500*time.Millisecond || c.FlashFade() != 400*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.RevealThreshold != 0.12 || c.Collation != "en" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoadFile_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stayin.yml")
	yml := "http_addr: \":9000\"\ncache_ttl_seconds: 60\ncollation: fr\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("STAYIN_HTTP_ADDR", ":7000")
	t.Setenv("STAYIN_ADMIN_TOKEN", "s3cret")

	c, err := shared.LoadFile(path)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.HTTPAddr != ":7000" {
		t.Fatalf("env should win over file, got %q", c.HTTPAddr)
	}
	if c.CacheTTL() != time.Minute || c.Collation != "fr" || c.AdminToken != "s3cret" {
		t.Fatalf("unexpected config: %+v", c)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stayin.yml")
	if err := os.WriteFile(path, []byte("reveal_threshold: 1.5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := shared.LoadFile(path); err == nil {
		t.Fatalf("expected validation error")
	}
}
