// Package config アプリケーション設定の読み込みを担う
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"daichi/internal/camera"
	"daichi/internal/motor"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig
	Camera CameraConfig
	Motor  MotorConfig
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"` // リッスンするホスト
	Port int    `env:"PORT" envDefault:"8080"`           // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"0"` // ストリーミング用にタイムアウト無効化
}

// CameraConfig はカメラ関連の設定
type CameraConfig struct {
	Device    string `env:"CAMERA_DEVICE" envDefault:"/dev/video0"` // デバイスパス
	Width     int    `env:"CAMERA_WIDTH" envDefault:"640"`          // 画像幅
	Height    int    `env:"CAMERA_HEIGHT" envDefault:"480"`         // 画像高さ
	Framerate int    `env:"CAMERA_FPS" envDefault:"30"`             // フレームレート (fps)
}

// MotorConfig はモーター関連の設定（ピンはBCM番号）
type MotorConfig struct {
	LeftForward   int `env:"MOTOR_LEFT_FORWARD" envDefault:"17"`
	LeftBackward  int `env:"MOTOR_LEFT_BACKWARD" envDefault:"18"`
	LeftEnable    int `env:"MOTOR_LEFT_ENABLE" envDefault:"22"`
	RightForward  int `env:"MOTOR_RIGHT_FORWARD" envDefault:"23"`
	RightBackward int `env:"MOTOR_RIGHT_BACKWARD" envDefault:"24"`
	RightEnable   int `env:"MOTOR_RIGHT_ENABLE" envDefault:"25"`
}

// Load は環境変数から設定を読み込む
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("環境変数の解析に失敗: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("無効な解像度: %dx%d", c.Camera.Width, c.Camera.Height)
	}

	if c.Camera.Framerate < 1 || c.Camera.Framerate > 60 {
		return fmt.Errorf("無効なフレームレート: %d", c.Camera.Framerate)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// CameraSettings はカメラ設定をキャプチャ設定に変換する
func (c *Config) CameraSettings() camera.Settings {
	return camera.Settings{
		Width:     c.Camera.Width,
		Height:    c.Camera.Height,
		Framerate: c.Camera.Framerate,
		Device:    c.Camera.Device,
	}
}

// LeftPins は左モーターのピン割り当てを返す
func (c *Config) LeftPins() motor.PinConfig {
	return motor.PinConfig{
		Forward:  c.Motor.LeftForward,
		Backward: c.Motor.LeftBackward,
		Enable:   c.Motor.LeftEnable,
	}
}

// RightPins は右モーターのピン割り当てを返す
func (c *Config) RightPins() motor.PinConfig {
	return motor.PinConfig{
		Forward:  c.Motor.RightForward,
		Backward: c.Motor.RightBackward,
		Enable:   c.Motor.RightEnable,
	}
}
