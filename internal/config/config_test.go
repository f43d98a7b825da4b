package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wish-sky.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sky.MaxWishes != 20 {
		t.Errorf("Expected max_wishes 20, got %d", cfg.Sky.MaxWishes)
	}
	if cfg.Client.MaxTextLength != 80 || cfg.Server.MaxWishLength != 80 {
		t.Errorf("Expected 80 rune limits, got client=%d server=%d", cfg.Client.MaxTextLength, cfg.Server.MaxWishLength)
	}
}

func TestLoadOverridesKeepOtherDefaults(t *testing.T) {
	path := writeConfig(t, `
sky:
  max_wishes: 12
  restitution: 0.5
  frame_interval: 50ms
client:
  transport: ws
  optimistic: true
server:
  max_stored: 500
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Sky.MaxWishes != 12 || cfg.Sky.Restitution != 0.5 {
		t.Errorf("Expected sky overrides, got %+v", cfg.Sky)
	}
	if cfg.Sky.FrameInterval != 50*time.Millisecond {
		t.Errorf("Expected 50ms frame interval, got %v", cfg.Sky.FrameInterval)
	}
	if cfg.Sky.PlacementAttempts != 20 {
		t.Errorf("Expected default placement attempts kept, got %d", cfg.Sky.PlacementAttempts)
	}
	if cfg.Client.Transport != "ws" || !cfg.Client.Optimistic {
		t.Errorf("Expected client overrides, got %+v", cfg.Client)
	}
	if cfg.Client.SeedRecent != 15 {
		t.Errorf("Expected default seed_recent kept, got %d", cfg.Client.SeedRecent)
	}
	if cfg.Server.MaxStored != 500 || cfg.Server.Addr != ":8080" {
		t.Errorf("Expected server overrides over defaults, got %+v", cfg.Server)
	}

	ctrl := cfg.Client.Controller()
	if !ctrl.Optimistic || ctrl.MaxTextLength != 80 {
		t.Errorf("Expected controller config from client section, got %+v", ctrl)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"transport", "client:\n  transport: carrier-pigeon\n", "client.transport"},
		{"renderer", "client:\n  renderer: opengl\n", "client.renderer"},
		{"max stored", "server:\n  max_stored: -1\n", "server.max_stored"},
		{"syntax", "sky: [unclosed\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
