package gpio

import (
	"errors"
	"fmt"
)

// errPinNotConfigured は未初期化ピンへの書き込みを表す
var errPinNotConfigured = errors.New("ピンが初期化されていません")

// Mode はピンの出力モードを表す
type Mode string

const (
	// ModeDigitalOutput はHIGH/LOWの二値出力を表す
	ModeDigitalOutput Mode = "digital_output"
	// ModePWMOutput はデューティ比制御付き出力を表す
	ModePWMOutput Mode = "pwm_output"
)

// Valid はモードが定義済みかを返す
func (m Mode) Valid() bool {
	switch m {
	case ModeDigitalOutput, ModePWMOutput:
		return true
	}
	return false
}

// Driver はGPIOドライバの能力契約
//
// SetPinの値はデジタルピンでは0/1、PWMピンではデューティ比(0-100)として
// 解釈される。同一インスタンスへの操作は呼び出し側で直列化すること。
type Driver interface {
	// SetupPin はピンを指定モードで初期化する
	SetupPin(pin int, mode Mode) error

	// SetPin はピンに値を書き込む
	SetPin(pin int, value int) error

	// PinState はピンの最後に書き込まれた値（デジタルは実読み出し）を返す
	PinState(pin int) int

	// Cleanup は全ピンを解放する。失敗してもエラーは返さない
	Cleanup()
}

// ConfigurationError は構築・設定時の致命的なエラーを表す
type ConfigurationError struct {
	Reason string
	Err    error
}

// Error はエラーメッセージを返す
func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("設定エラー: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("設定エラー: %s", e.Reason)
}

// Unwrap はラップされたエラーを返す
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// HardwareIOError は実機I/Oの失敗を表す
//
// モーターコマンドの黙殺は危険なため、通常操作中のI/O失敗は
// このエラーとして呼び出し側に伝播する。
type HardwareIOError struct {
	Op  string
	Pin int
	Err error
}

// Error はエラーメッセージを返す
func (e *HardwareIOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ハードウェアI/Oエラー: %s (pin %d): %v", e.Op, e.Pin, e.Err)
	}
	return fmt.Sprintf("ハードウェアI/Oエラー: %s (pin %d)", e.Op, e.Pin)
}

// Unwrap はラップされたエラーを返す
func (e *HardwareIOError) Unwrap() error {
	return e.Err
}
