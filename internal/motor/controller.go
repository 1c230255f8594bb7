// Package motor は左右DCモーターの走行制御を担う
//
// コントローラはGPIOドライバを専有し、方向指示をピン状態へ変換する。
// 内部でロックは行わないため、同一インスタンスへのモーター操作
// （ForwardForのようなブロッキング操作を含む）は同時に1つまでと
// すること。並行呼び出しのピン書き込み順序は未定義になる。
package motor

import (
	"context"
	"fmt"
	"log"
	"time"

	"daichi/internal/gpio"
)

// Direction は走行方向を表す。停止は方向ではなくenable=0で表現する
type Direction string

const (
	// DirectionForward は前進
	DirectionForward Direction = "forward"
	// DirectionBackward は後退
	DirectionBackward Direction = "backward"
)

// PinConfig は片側モーターの論理役割と物理ピンの対応
//
// 構築時に一度だけ設定し、以後変更しない。
type PinConfig struct {
	Forward  int // 前進方向ピン
	Backward int // 後退方向ピン
	Enable   int // 速度制御用PWMピン
}

// 既定のピン割り当て（BCM番号）
var (
	DefaultLeftPins  = PinConfig{Forward: 17, Backward: 18, Enable: 22}
	DefaultRightPins = PinConfig{Forward: 23, Backward: 24, Enable: 25}
)

// モーター停止後にホイールが物理的に静定するまでの待ち時間
const settleWait = 100 * time.Millisecond

// Controller は左右モーターをGPIOドライバ経由で制御する
type Controller struct {
	driver gpio.Driver
	left   PinConfig
	right  PinConfig
}

// New は新しいControllerを作成し、全ピンをセットアップする
//
// 方向ピンはデジタル出力、enableピンはPWM出力で初期化する。
// モーターのセットアップは安全に直結するため、失敗はリトライせず
// そのまま呼び出し側へ返す。
func New(driver gpio.Driver, left, right PinConfig) (*Controller, error) {
	c := &Controller{
		driver: driver,
		left:   left,
		right:  right,
	}

	for _, pins := range []PinConfig{left, right} {
		if err := driver.SetupPin(pins.Forward, gpio.ModeDigitalOutput); err != nil {
			return nil, fmt.Errorf("前進ピン %d のセットアップに失敗: %w", pins.Forward, err)
		}
		if err := driver.SetupPin(pins.Backward, gpio.ModeDigitalOutput); err != nil {
			return nil, fmt.Errorf("後退ピン %d のセットアップに失敗: %w", pins.Backward, err)
		}
		if err := driver.SetupPin(pins.Enable, gpio.ModePWMOutput); err != nil {
			return nil, fmt.Errorf("enableピン %d のセットアップに失敗: %w", pins.Enable, err)
		}
	}

	return c, nil
}

// Forward は両モーターを前進方向で駆動する
func (c *Controller) Forward(speed float64) error {
	if err := c.setDirection(c.left, DirectionForward); err != nil {
		return err
	}
	if err := c.setDirection(c.right, DirectionForward); err != nil {
		return err
	}
	return c.setSpeed(speed)
}

// Backward は両モーターを後退方向で駆動する
func (c *Controller) Backward(speed float64) error {
	if err := c.setDirection(c.left, DirectionBackward); err != nil {
		return err
	}
	if err := c.setDirection(c.right, DirectionBackward); err != nil {
		return err
	}
	return c.setSpeed(speed)
}

// TurnLeft は左モーター後退・右モーター前進で左に旋回する
func (c *Controller) TurnLeft(speed float64) error {
	if err := c.setDirection(c.left, DirectionBackward); err != nil {
		return err
	}
	if err := c.setDirection(c.right, DirectionForward); err != nil {
		return err
	}
	return c.setSpeed(speed)
}

// TurnRight は左モーター前進・右モーター後退で右に旋回する
func (c *Controller) TurnRight(speed float64) error {
	if err := c.setDirection(c.left, DirectionForward); err != nil {
		return err
	}
	if err := c.setDirection(c.right, DirectionBackward); err != nil {
		return err
	}
	return c.setSpeed(speed)
}

// Stop は両enableラインを0にする
//
// 方向ピンには触れない。直前の方向指示が残るため、同方向への
// 再駆動が即座に行える（意図した仕様）。
func (c *Controller) Stop() error {
	if err := c.driver.SetPin(c.left.Enable, 0); err != nil {
		return fmt.Errorf("左モーターの停止に失敗: %w", err)
	}
	if err := c.driver.SetPin(c.right.Enable, 0); err != nil {
		return fmt.Errorf("右モーターの停止に失敗: %w", err)
	}
	return nil
}

// ForwardFor は指定時間だけ前進し、経過後に停止する
//
// 呼び出し側をdの間ブロックする。コンテキストがキャンセルされた
// 場合も必ず停止してから戻る。応答性が必要なゴルーチン上では
// 直接呼ばないこと。
func (c *Controller) ForwardFor(ctx context.Context, speed float64, d time.Duration) error {
	if err := c.Forward(speed); err != nil {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	return c.Stop()
}

// Cleanup はモーターを停止してドライバを解放する
//
// 終了処理のためエラーはログに残すだけで伝播しない。
func (c *Controller) Cleanup() {
	if err := c.Stop(); err != nil {
		log.Printf("クリーンアップ中の停止に失敗: %v", err)
	}

	// ホイールの静定を待ってから解放する
	time.Sleep(settleWait)

	c.driver.Cleanup()
	log.Println("モーターコントローラをクリーンアップしました")
}

// setDirection は片側モーターの方向ピンを設定する
//
// 前進ピンと後退ピンが同時にHIGHになることはない。
func (c *Controller) setDirection(pins PinConfig, dir Direction) error {
	forward, backward := 1, 0
	if dir == DirectionBackward {
		forward, backward = 0, 1
	}

	if err := c.driver.SetPin(pins.Forward, forward); err != nil {
		return fmt.Errorf("方向ピン %d の設定に失敗: %w", pins.Forward, err)
	}
	if err := c.driver.SetPin(pins.Backward, backward); err != nil {
		return fmt.Errorf("方向ピン %d の設定に失敗: %w", pins.Backward, err)
	}
	return nil
}

// setSpeed は両enableラインへデューティ比を書き込む
func (c *Controller) setSpeed(speed float64) error {
	duty := speedToDuty(speed)

	if err := c.driver.SetPin(c.left.Enable, duty); err != nil {
		return fmt.Errorf("左モーターの速度設定に失敗: %w", err)
	}
	if err := c.driver.SetPin(c.right.Enable, duty); err != nil {
		return fmt.Errorf("右モーターの速度設定に失敗: %w", err)
	}
	return nil
}

// speedToDuty は速度[0.0,1.0]をデューティ比[0,100]へ変換する
//
// 範囲外の速度はクランプする。変換は四捨五入ではなくゼロ方向への
// 切り捨て。互換性テストが依存しているため変更しないこと。
func speedToDuty(speed float64) int {
	if speed < 0 {
		speed = 0
	}
	if speed > 1 {
		speed = 1
	}
	return int(speed * 100)
}
