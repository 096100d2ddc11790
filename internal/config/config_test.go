package config

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("COLONYNET_PLAYER_ID", "player:1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerURL != "ws://localhost:8080/ws" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.PlayerID != "player:1" {
		t.Errorf("PlayerID = %q", cfg.PlayerID)
	}
	if cfg.HandshakeTimeout != 5*time.Second {
		t.Errorf("HandshakeTimeout = %v", cfg.HandshakeTimeout)
	}
	if cfg.UIQueueSize != 256 {
		t.Errorf("UIQueueSize = %d", cfg.UIQueueSize)
	}
	rl := cfg.RateLimit()
	if !rl.Enabled || rl.MessagesPerSecond != 100 || rl.Burst != 200 {
		t.Errorf("RateLimit() = %+v", rl)
	}
}

func TestLoadRequiresPlayer(t *testing.T) {
	t.Setenv("COLONYNET_PLAYER_ID", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad scheme", "COLONYNET_SERVER_URL", "http://localhost/ws"},
		{"bad duration", "COLONYNET_HANDSHAKE_TIMEOUT", "soon"},
		{"zero burst", "COLONYNET_RATE_LIMIT_BURST", "0"},
		{"negative queue", "COLONYNET_UI_QUEUE_SIZE", "-1"},
		{"bad level", "COLONYNET_LOG_LEVEL", "loud"},
		{"bad format", "COLONYNET_LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("COLONYNET_PLAYER_ID", "player:1")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("%s=%q accepted", tt.key, tt.value)
			}
		})
	}
}

func TestRateLimitDisabled(t *testing.T) {
	t.Setenv("COLONYNET_PLAYER_ID", "player:1")
	t.Setenv("COLONYNET_RATE_LIMIT_ENABLED", "false")
	t.Setenv("COLONYNET_RATE_LIMIT_BURST", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RateLimit().Enabled {
		t.Error("rate limit should be disabled")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "warn", LogFormat: "json"}

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "tag", "chat")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"tag":"chat"`) {
		t.Errorf("expected json record, got %s", out)
	}
}
