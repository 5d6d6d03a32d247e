package config

import (
	"errors"
	"testing"
	"time"

	"trashminder/internal/domain/schedule"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SUPERVISOR_TOKEN", "supervisor-token")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PUSHOVER_USER_KEY", "user-key")
	t.Setenv("PUSHOVER_API_TOKEN", "api-token")
	// Clear anything a developer .env might otherwise contribute.
	t.Setenv("NOTIFY_CHANNEL", "")
	t.Setenv("MONITOR_START_DAY", "")
	t.Setenv("MONITOR_START_TIME", "")
	t.Setenv("MONITOR_END_DAY", "")
	t.Setenv("MONITOR_END_TIME", "")
	t.Setenv("TEST_MODE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CAMERA_ENTITY", "")
	t.Setenv("HASS_API_URL", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CameraEntity != "camera.front_yard" {
		t.Fatalf("default camera entity = %q", cfg.CameraEntity)
	}
	if cfg.NotifyChannel != ChannelPushover {
		t.Fatalf("default notify channel = %q", cfg.NotifyChannel)
	}
	if cfg.TestMode {
		t.Fatal("test mode should default to off")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("default log level = %q", cfg.LogLevel)
	}

	// Default window: Wednesday 15:00 -> Thursday 09:00.
	wed := time.Date(2025, time.June, 4, 15, 0, 0, 0, time.UTC)
	if !cfg.Window.Contains(wed) {
		t.Fatal("default window should contain Wednesday 15:00")
	}
	if cfg.Window.Contains(wed.Add(-time.Minute)) {
		t.Fatal("default window should not contain Wednesday 14:59")
	}
	if got := cfg.Window.Length(); got != 18*time.Hour {
		t.Fatalf("default window length = %s, want 18h", got)
	}
}

func TestLoadCustomWindowAndTestMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MONITOR_START_DAY", "monday")
	t.Setenv("MONITOR_START_TIME", "08:00")
	t.Setenv("MONITOR_END_DAY", "monday")
	t.Setenv("MONITOR_END_TIME", "10:00")
	t.Setenv("TEST_MODE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.TestMode {
		t.Fatal("expected test mode on")
	}
	if got := cfg.Window.Length(); got != 2*time.Hour {
		t.Fatalf("same-day window length = %s, want 2h", got)
	}
}

func TestLoadRejectsZeroLengthWindow(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MONITOR_START_DAY", "wed")
	t.Setenv("MONITOR_START_TIME", "15:00:00")
	t.Setenv("MONITOR_END_DAY", "wed")
	t.Setenv("MONITOR_END_TIME", "15:00:00")

	_, err := Load()
	if !errors.Is(err, schedule.ErrZeroLengthWindow) {
		t.Fatalf("err = %v, want ErrZeroLengthWindow", err)
	}
}

func TestLoadRejectsUnparseableSchedule(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MONITOR_START_DAY", "wodansday")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown weekday")
	}

	setRequiredEnv(t)
	t.Setenv("MONITOR_END_TIME", "25:00")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range time")
	}
}

func TestLoadRequiresChannelCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PUSHOVER_USER_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when pushover credentials are missing")
	}

	setRequiredEnv(t)
	t.Setenv("NOTIFY_CHANNEL", "telegram")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when telegram credentials are missing")
	}

	t.Setenv("TELEGRAM_TOKEN", "bot-token")
	t.Setenv("TELEGRAM_CHAT_ID", "123456")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config with telegram channel: %v", err)
	}
	if cfg.TelegramChatID != 123456 {
		t.Fatalf("telegram chat id = %d", cfg.TelegramChatID)
	}
}

func TestLoadRejectsUnknownChannel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("NOTIFY_CHANNEL", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown notify channel")
	}
}
