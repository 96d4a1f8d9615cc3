package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"igrelay/pkg/config"
	"igrelay/pkg/logger"
)

func writeStateFile(t *testing.T, dir, content string) *config.StateConfig {
	t.Helper()

	cfg := &config.StateConfig{
		File:       filepath.Join(dir, "state.json"),
		CursorFile: filepath.Join(dir, "cursors.json"),
	}
	if err := os.WriteFile(cfg.File, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write state file: %v", err)
	}
	return cfg
}

const sampleState = `{
	"accounts": [
		{"id": "acc1", "name": "brand", "chat_id": "-100123", "access_token": "tok1", "enabled": true},
		{"id": "acc2", "name": "studio", "chat_id": "-100456", "access_token": "tok2", "enabled": false, "lastProcessedPostId": "post_9"}
	],
	"settings": {"check_interval": 300000, "retry_delay": 5000}
}`

func TestLoad(t *testing.T) {
	cfg := writeStateFile(t, t.TempDir(), sampleState)

	store, err := Load(cfg, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	accounts := store.Accounts()
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[1].LastProcessedPostID != "post_9" {
		t.Errorf("expected lastProcessedPostId post_9, got %q", accounts[1].LastProcessedPostID)
	}

	enabled := store.EnabledAccounts()
	if len(enabled) != 1 || enabled[0].ID != "acc1" {
		t.Errorf("expected only acc1 enabled, got %+v", enabled)
	}

	settings := store.Settings()
	if settings.Interval() != 5*time.Minute {
		t.Errorf("expected 5m interval, got %v", settings.Interval())
	}
	if settings.Pause() != 5*time.Second {
		t.Errorf("expected 5s pause, got %v", settings.Pause())
	}
}

func TestLoadMissingStateFileFails(t *testing.T) {
	cfg := &config.StateConfig{
		File:       filepath.Join(t.TempDir(), "missing.json"),
		CursorFile: filepath.Join(t.TempDir(), "cursors.json"),
	}

	if _, err := Load(cfg, logger.NewTestLogger()); err == nil {
		t.Fatal("expected error for missing state file")
	}
}

func TestLoadMalformedStateFileFails(t *testing.T) {
	cfg := writeStateFile(t, t.TempDir(), `{"accounts": [`)

	if _, err := Load(cfg, logger.NewTestLogger()); err == nil {
		t.Fatal("expected error for malformed state file")
	}
}

func TestLoadMissingCursorFileIsEmpty(t *testing.T) {
	cfg := writeStateFile(t, t.TempDir(), sampleState)

	store, err := Load(cfg, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, ok := store.Cursor("acc1"); ok {
		t.Error("expected no cursor for acc1 before first observation")
	}
}

func TestLoadCursorFileWithNull(t *testing.T) {
	dir := t.TempDir()
	cfg := writeStateFile(t, dir, sampleState)

	cursors := `{"acc1": "2026-08-20T10:30:00Z", "acc2": null}`
	if err := os.WriteFile(cfg.CursorFile, []byte(cursors), 0644); err != nil {
		t.Fatalf("failed to write cursor file: %v", err)
	}

	store, err := Load(cfg, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ts, ok := store.Cursor("acc1")
	if !ok {
		t.Fatal("expected cursor for acc1")
	}
	expected := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	if !ts.Equal(expected) {
		t.Errorf("expected cursor %v, got %v", expected, ts)
	}

	if _, ok := store.Cursor("acc2"); ok {
		t.Error("expected null cursor for acc2 to read as never observed")
	}
}

func TestSetCursorForwardOnly(t *testing.T) {
	cfg := writeStateFile(t, t.TempDir(), sampleState)

	store, err := Load(cfg, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	t1 := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	if !store.SetCursor("acc1", t1) {
		t.Error("expected first SetCursor to report a change")
	}
	if !store.SetCursor("acc1", t2) {
		t.Error("expected advancing SetCursor to report a change")
	}

	// Earlier timestamps must not regress the cursor
	if store.SetCursor("acc1", t1) {
		t.Error("expected earlier SetCursor to be ignored")
	}
	if store.SetCursor("acc1", t2) {
		t.Error("expected equal SetCursor to be ignored")
	}

	ts, ok := store.Cursor("acc1")
	if !ok || !ts.Equal(t2) {
		t.Errorf("expected cursor %v, got %v (ok=%v)", t2, ts, ok)
	}
}

func TestSetLastProcessed(t *testing.T) {
	cfg := writeStateFile(t, t.TempDir(), sampleState)

	store, err := Load(cfg, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !store.SetLastProcessed("acc1", "post_1") {
		t.Error("expected SetLastProcessed to report a change")
	}
	if store.SetLastProcessed("acc1", "post_1") {
		t.Error("expected repeated SetLastProcessed to report no change")
	}
	if store.SetLastProcessed("unknown", "post_1") {
		t.Error("expected SetLastProcessed on unknown account to report no change")
	}

	if got := store.LastProcessed("acc1"); got != "post_1" {
		t.Errorf("expected post_1, got %q", got)
	}
}

func TestSetEnabled(t *testing.T) {
	cfg := writeStateFile(t, t.TempDir(), sampleState)

	store, err := Load(cfg, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !store.SetEnabled("acc2", true) {
		t.Error("expected enabling acc2 to report a change")
	}
	if store.SetEnabled("acc2", true) {
		t.Error("expected repeated enable to report no change")
	}
	if len(store.EnabledAccounts()) != 2 {
		t.Errorf("expected 2 enabled accounts, got %d", len(store.EnabledAccounts()))
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := writeStateFile(t, dir, sampleState)

	store, err := Load(cfg, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cursor := time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)
	store.SetCursor("acc1", cursor)
	store.SetLastProcessed("acc1", "post_42")

	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// No leftover temp files
	for _, path := range []string{cfg.File + ".tmp", cfg.CursorFile + ".tmp"} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("temp file %s left behind", path)
		}
	}

	reloaded, err := Load(cfg, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if got := reloaded.LastProcessed("acc1"); got != "post_42" {
		t.Errorf("expected post_42 after reload, got %q", got)
	}
	ts, ok := reloaded.Cursor("acc1")
	if !ok || !ts.Equal(cursor) {
		t.Errorf("expected cursor %v after reload, got %v (ok=%v)", cursor, ts, ok)
	}
}

func TestSaveCursorFileFormat(t *testing.T) {
	dir := t.TempDir()
	cfg := writeStateFile(t, dir, sampleState)

	store, err := Load(cfg, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	store.SetCursor("acc1", time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC))
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(cfg.CursorFile)
	if err != nil {
		t.Fatalf("failed to read cursor file: %v", err)
	}

	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("cursor file is not valid JSON: %v", err)
	}
	if raw["acc1"] == nil || *raw["acc1"] != "2026-08-21T09:00:00Z" {
		t.Errorf("unexpected cursor value: %v", raw["acc1"])
	}
}

func TestSettingsDefaults(t *testing.T) {
	var settings Settings

	if settings.Interval() != DefaultCheckInterval {
		t.Errorf("expected default interval %v, got %v", DefaultCheckInterval, settings.Interval())
	}
	if settings.Pause() != DefaultRetryDelay {
		t.Errorf("expected default pause %v, got %v", DefaultRetryDelay, settings.Pause())
	}
}
