package main

import (
	"context"
	"log"

	"daichi/internal/camera"
	"daichi/internal/config"
	"daichi/internal/gpio"
	"daichi/internal/motor"
	"daichi/internal/server"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	ctx := context.Background()

	// GPIOドライバを環境に応じて選択
	driver := gpio.NewFactory().New()

	// モーターコントローラを作成（セットアップ失敗は致命的）
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

	// サーバーを起動（シグナル受信まで待機）
	srv := server.New(cfg, motors, stream)
	if err := srv.Start(ctx); err != nil {
		log.Printf("サーバーの実行中にエラーが発生しました: %v", err)
	}

	// 終了処理: モーター停止 → GPIO解放 → カメラ解放の順
	motors.Cleanup()
	desc.Release()
}
