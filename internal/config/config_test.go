package config

import (
	"testing"

	"daichi/internal/camera"
	"daichi/internal/motor"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}

	// ストリーミングのため書き込みタイムアウトは無効
	if cfg.Server.WriteTimeout != 0 {
		t.Errorf("Expected write timeout 0, got %v", cfg.Server.WriteTimeout)
	}

	if cfg.Camera.Width != 640 || cfg.Camera.Height != 480 || cfg.Camera.Framerate != 30 {
		t.Errorf("Unexpected camera defaults: %+v", cfg.Camera)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CAMERA_FPS", "15")
	t.Setenv("MOTOR_LEFT_ENABLE", "13")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Camera.Framerate != 15 {
		t.Errorf("Expected framerate 15, got %d", cfg.Camera.Framerate)
	}
	if cfg.Motor.LeftEnable != 13 {
		t.Errorf("Expected left enable pin 13, got %d", cfg.Motor.LeftEnable)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "PORT", "70000"},
		{"zero framerate", "CAMERA_FPS", "0"},
		{"negative width", "CAMERA_WIDTH", "-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected validation error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestConfig_ServerAddress(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if addr := cfg.ServerAddress(); addr != "0.0.0.0:8080" {
		t.Errorf("Expected 0.0.0.0:8080, got %s", addr)
	}
}

func TestConfig_DomainConversions(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// 既定のピン割り当てはmotorパッケージの既定値と一致する
	if cfg.LeftPins() != motor.DefaultLeftPins {
		t.Errorf("Left pins mismatch: %+v", cfg.LeftPins())
	}
	if cfg.RightPins() != motor.DefaultRightPins {
		t.Errorf("Right pins mismatch: %+v", cfg.RightPins())
	}

	want := camera.Settings{Width: 640, Height: 480, Framerate: 30, Device: "/dev/video0"}
	if cfg.CameraSettings() != want {
		t.Errorf("Camera settings mismatch: %+v", cfg.CameraSettings())
	}
}
