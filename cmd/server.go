// Package main はDaichiサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"daichi/internal/camera"
	"daichi/internal/config"
	"daichi/internal/gpio"
	"daichi/internal/motor"
	"daichi/internal/server"
)

func main() {
	// コマンドラインオプション
	var (
		host   = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port   = flag.Int("port", 0, "サーバーのポート (デフォルト: 8080)")
		device = flag.String("device", "", "カメラデバイス (デフォルト: /dev/video0)")
		help   = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("Daichi")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *device != "" {
		cfg.Camera.Device = *device
	}

	ctx := context.Background()

	// GPIOドライバを環境に応じて選択
	driver := gpio.NewFactory().New()

	// モーターコントローラを作成
	motors, err := motor.New(driver, cfg.LeftPins(), cfg.RightPins())
	if err != nil {
		driver.Cleanup()
		log.Fatalf("モーターコントローラの初期化に失敗しました: %v", err)
	}

	// カメラバックエンドをプローブしてストリームを作成
	desc := camera.Probe(ctx, cfg.CameraSettings(),
		camera.NewV4L2Backend(cfg.Camera.Device),
		camera.NewLibcameraBackend(),
	)
	stream := camera.NewStream(desc)

	// サーバーを起動
	srv := server.New(cfg, motors, stream)
	log.Printf("Daichi サーバーを起動します: %s", cfg.ServerAddress())
	if err := srv.Start(ctx); err != nil {
		log.Printf("サーバーの実行中にエラーが発生しました: %v", err)
	}

	// 終了処理
	motors.Cleanup()
	desc.Release()
}
