package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.CheckIntervalSec != 1800 {
		t.Fatalf("default interval should be 1800s, got %d", cfg.CheckIntervalSec)
	}
	if cfg.DataDir != "./data" {
		t.Fatalf("default data dir: %q", cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.CheckInterval() != 30*time.Minute {
		t.Fatalf("CheckInterval() = %v", cfg.CheckInterval())
	}
}

func TestApplyEnvOverridesFile(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/lhwatch")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "123")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://hook")
	t.Setenv("DATA_GO_KR_API_KEY", "key")
	t.Setenv("CHECK_INTERVAL", "600")

	cfg := Default()
	cfg.DataDir = "./from-file"
	cfg.CheckIntervalSec = 60
	ApplyEnv(cfg)

	if cfg.DataDir != "/var/lib/lhwatch" {
		t.Errorf("env must win over file: %q", cfg.DataDir)
	}
	if cfg.Telegram.Token != "tok" || cfg.Telegram.ChatID != "123" {
		t.Errorf("telegram env not applied: %+v", cfg.Telegram)
	}
	if cfg.Discord.WebhookURL != "https://hook" {
		t.Errorf("discord env not applied: %+v", cfg.Discord)
	}
	if cfg.OpenData.APIKey != "key" {
		t.Errorf("api key env not applied: %+v", cfg.OpenData)
	}
	if cfg.CheckIntervalSec != 600 {
		t.Errorf("interval env not applied: %d", cfg.CheckIntervalSec)
	}
}

func TestApplyEnvIgnoresEmptyAndInvalid(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("CHECK_INTERVAL", "not-a-number")

	cfg := Default()
	ApplyEnv(cfg)
	if cfg.DataDir != "./data" {
		t.Errorf("empty env must not clobber the value: %q", cfg.DataDir)
	}
	if cfg.CheckIntervalSec != 1800 {
		t.Errorf("invalid interval must be ignored: %d", cfg.CheckIntervalSec)
	}
}

func TestManagerParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lhwatch.yaml")
	body := `
data_dir: /tmp/lh
check_interval_sec: 900
timezone: Asia/Seoul
logging:
  level: debug
  console: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/tmp/lh" || cfg.CheckIntervalSec != 900 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if m.Get() != cfg {
		t.Fatalf("Get should return the committed snapshot")
	}
}

func TestManagerRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lhwatch.yaml")
	if err := os.WriteFile(path, []byte("no_such_field: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatalf("unknown fields must be rejected")
	}
}

func TestManagerRejectsBadTimezone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lhwatch.yaml")
	if err := os.WriteFile(path, []byte("timezone: Mars/Olympus\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatalf("bad timezone must be rejected")
	}
}

func TestManagerSparseFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lhwatch.json")
	if err := os.WriteFile(path, []byte(`{"telegram":{"token":"t","chat_id":"1"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CheckIntervalSec != 1800 || cfg.Timezone != "Asia/Seoul" {
		t.Fatalf("sparse file should be normalized: %+v", cfg)
	}
}
