package gpio

import (
	"log"

	rpio "github.com/stianeikeland/go-rpio/v4"
)

// PWM周期の分解能とキャリア周波数
// デューティ比は0-100で扱うため、PWMクロックはキャリアの100倍になる
const (
	pwmCycleLen  = 100
	pwmCarrierHz = 1000
)

// HardwareDriver はRaspberry Piの物理GPIOを駆動するドライバ
//
// ピン番号はBCM番号で指定する。PWMピンのデューティ比は書き込み時に
// [0,100]へクランプされる。
type HardwareDriver struct {
	states map[int]int
	pwm    map[int]bool
	setup  map[int]bool
}

// NewHardwareDriver は新しいHardwareDriverを作成する
//
// /dev/gpiomem経由でGPIOサブシステムを初期化する。初期化できない
// 環境（実機以外）では HardwareIOError を返す。
func NewHardwareDriver() (*HardwareDriver, error) {
	if err := rpio.Open(); err != nil {
		return nil, &HardwareIOError{Op: "open", Err: err}
	}

	log.Println("実機GPIOを初期化しました (BCMモード)")

	return &HardwareDriver{
		states: make(map[int]int),
		pwm:    make(map[int]bool),
		setup:  make(map[int]bool),
	}, nil
}

// SetupPin はピンを指定モードで初期化する
func (d *HardwareDriver) SetupPin(pin int, mode Mode) error {
	if !mode.Valid() {
		return &ConfigurationError{Reason: "未定義のピンモード: " + string(mode)}
	}

	p := rpio.Pin(pin)

	switch mode {
	case ModeDigitalOutput:
		p.Output()
		p.Low()

	case ModePWMOutput:
		p.Pwm()
		p.Freq(pwmCarrierHz * pwmCycleLen)
		p.DutyCycle(0, pwmCycleLen)
		d.pwm[pin] = true
	}

	d.states[pin] = 0
	d.setup[pin] = true
	return nil
}

// SetPin はピンに値を書き込む
//
// PWMピンは[0,100]にクランプしたデューティ比、デジタルピンは
// 値が正ならHIGH、それ以外はLOWを書き込む。
func (d *HardwareDriver) SetPin(pin int, value int) error {
	if !d.setup[pin] {
		return &HardwareIOError{Op: "set", Pin: pin, Err: errPinNotConfigured}
	}

	p := rpio.Pin(pin)

	if d.pwm[pin] {
		duty := value
		if duty < 0 {
			duty = 0
		}
		if duty > 100 {
			duty = 100
		}
		p.DutyCycle(uint32(duty), pwmCycleLen)
		d.states[pin] = duty
		return nil
	}

	if value > 0 {
		p.High()
		d.states[pin] = 1
	} else {
		p.Low()
		d.states[pin] = 0
	}
	return nil
}

// PinState はピンの状態を返す
//
// PWMピンは最後に記録したデューティ比（ハードウェアからの読み戻しは
// 行わない）、デジタルピンは実際のレベルを読み出して返す。
func (d *HardwareDriver) PinState(pin int) int {
	if d.pwm[pin] {
		return d.states[pin]
	}
	if !d.setup[pin] {
		return 0
	}
	return int(rpio.Pin(pin).Read())
}

// Cleanup は全ピンを解放する
//
// PWM出力の停止 → GPIOサブシステムの解放 → 内部状態のクリアの順に
// 実行する。途中の失敗はログに残すだけで中断しない。
func (d *HardwareDriver) Cleanup() {
	for pin := range d.pwm {
		p := rpio.Pin(pin)
		p.DutyCycle(0, pwmCycleLen)
		p.Output()
		p.Low()
	}

	if err := rpio.Close(); err != nil {
		log.Printf("GPIOサブシステムの解放に失敗: %v", err)
	}

	d.states = make(map[int]int)
	d.pwm = make(map[int]bool)
	d.setup = make(map[int]bool)
	log.Println("実機GPIOをクリーンアップしました")
}
