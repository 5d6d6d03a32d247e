package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"trashminder/internal/domain/schedule"

	"github.com/joho/godotenv"
)

// Notification channels selectable via NOTIFY_CHANNEL.
const (
	ChannelPushover = "pushover"
	ChannelTelegram = "telegram"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	CameraEntity     string
	HassAPIURL       string
	SupervisorToken  string
	OpenAIAPIKey     string
	NotifyChannel    string
	PushoverUserKey  string
	PushoverAPIToken string
	TelegramToken    string
	TelegramChatID   int64
	Window           schedule.Window
	TestMode         bool
	LogLevel         string
	Environment      string
}

// Load reads configuration from environment variables and .env file (if present).
// Any validation failure here is fatal: the monitor must not start with a
// schedule or credential set it cannot honor.
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.CameraEntity = os.Getenv("CAMERA_ENTITY")
	if cfg.CameraEntity == "" {
		cfg.CameraEntity = "camera.front_yard"
	}

	cfg.HassAPIURL = os.Getenv("HASS_API_URL")
	if cfg.HassAPIURL == "" {
		cfg.HassAPIURL = "http://supervisor/core" // Home Assistant add-on default
	}

	cfg.SupervisorToken = os.Getenv("SUPERVISOR_TOKEN")
	if cfg.SupervisorToken == "" {
		return nil, fmt.Errorf("SUPERVISOR_TOKEN is not set")
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	cfg.NotifyChannel = strings.ToLower(os.Getenv("NOTIFY_CHANNEL"))
	if cfg.NotifyChannel == "" {
		cfg.NotifyChannel = ChannelPushover
	}
	switch cfg.NotifyChannel {
	case ChannelPushover:
		cfg.PushoverUserKey = os.Getenv("PUSHOVER_USER_KEY")
		cfg.PushoverAPIToken = os.Getenv("PUSHOVER_API_TOKEN")
		if cfg.PushoverUserKey == "" || cfg.PushoverAPIToken == "" {
			return nil, fmt.Errorf("PUSHOVER_USER_KEY and PUSHOVER_API_TOKEN are required for the pushover channel")
		}
	case ChannelTelegram:
		cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
		if cfg.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN is required for the telegram channel")
		}
		chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
		if chatIDStr == "" {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID is required for the telegram channel")
		}
		cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown NOTIFY_CHANNEL %q", cfg.NotifyChannel)
	}

	cfg.Window, err = loadWindow()
	if err != nil {
		return nil, err
	}

	if testModeStr := os.Getenv("TEST_MODE"); testModeStr != "" {
		cfg.TestMode, err = strconv.ParseBool(testModeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid TEST_MODE: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// loadWindow assembles the weekly monitoring window from the MONITOR_*
// variables, defaulting to Wednesday 15:00 through Thursday 09:00.
func loadWindow() (schedule.Window, error) {
	startDayStr := envOr("MONITOR_START_DAY", "wed")
	startTimeStr := envOr("MONITOR_START_TIME", "15:00:00")
	endDayStr := envOr("MONITOR_END_DAY", "thu")
	endTimeStr := envOr("MONITOR_END_TIME", "09:00:00")

	startDay, err := schedule.ParseWeekday(startDayStr)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("invalid MONITOR_START_DAY: %w", err)
	}
	startTime, err := schedule.ParseTimeOfDay(startTimeStr)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("invalid MONITOR_START_TIME: %w", err)
	}
	endDay, err := schedule.ParseWeekday(endDayStr)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("invalid MONITOR_END_DAY: %w", err)
	}
	endTime, err := schedule.ParseTimeOfDay(endTimeStr)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("invalid MONITOR_END_TIME: %w", err)
	}

	window, err := schedule.NewWindow(startDay, startTime, endDay, endTime)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("invalid monitoring window: %w", err)
	}
	return window, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
