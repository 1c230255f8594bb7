package gpio

import "log"

// SimulatedDriver はメモリ上のピン状態テーブルのみを持つドライバ
//
// 実I/Oは一切行わない。開発環境およびテストで使用する。
// ハードウェア版と異なりPWM値のクランプは行わない（クランプは
// 呼び出し側またはハードウェア版の責務）。
type SimulatedDriver struct {
	states map[int]int
	modes  map[int]Mode
}

// NewSimulatedDriver は新しいSimulatedDriverを作成する
func NewSimulatedDriver() *SimulatedDriver {
	return &SimulatedDriver{
		states: make(map[int]int),
		modes:  make(map[int]Mode),
	}
}

// SetupPin はピンを初期化する。モードに関わらず状態は0になる
func (d *SimulatedDriver) SetupPin(pin int, mode Mode) error {
	if !mode.Valid() {
		return &ConfigurationError{Reason: "未定義のピンモード: " + string(mode)}
	}

	d.states[pin] = 0
	d.modes[pin] = mode
	return nil
}

// SetPin は値を無条件に記録する
func (d *SimulatedDriver) SetPin(pin int, value int) error {
	d.states[pin] = value
	return nil
}

// PinState は記録された値を返す。未設定の場合は0
func (d *SimulatedDriver) PinState(pin int) int {
	return d.states[pin]
}

// PinMode はピンの設定済みモードを返す（テスト確認用）
func (d *SimulatedDriver) PinMode(pin int) (Mode, bool) {
	mode, ok := d.modes[pin]
	return mode, ok
}

// Cleanup はピン状態テーブルをクリアする
func (d *SimulatedDriver) Cleanup() {
	d.states = make(map[int]int)
	d.modes = make(map[int]Mode)
	log.Println("シミュレートGPIOをクリーンアップしました")
}
