package gpio

import (
	"errors"
	"testing"
)

func TestSimulatedDriver_RoundTrip(t *testing.T) {
	driver := NewSimulatedDriver()

	// セットアップ直後は0
	if err := driver.SetupPin(17, ModeDigitalOutput); err != nil {
		t.Fatalf("SetupPin failed: %v", err)
	}
	if state := driver.PinState(17); state != 0 {
		t.Errorf("Expected pin state 0 after setup, got %d", state)
	}

	// 書き込んだ値がそのまま読み出せる（クランプなし）
	if err := driver.SetPin(17, 7); err != nil {
		t.Fatalf("SetPin failed: %v", err)
	}
	if state := driver.PinState(17); state != 7 {
		t.Errorf("Expected pin state 7, got %d", state)
	}

	// 未設定ピンは0
	if state := driver.PinState(99); state != 0 {
		t.Errorf("Expected unset pin state 0, got %d", state)
	}
}

func TestSimulatedDriver_NoClamping(t *testing.T) {
	driver := NewSimulatedDriver()

	if err := driver.SetupPin(22, ModePWMOutput); err != nil {
		t.Fatalf("SetupPin failed: %v", err)
	}

	// シミュレート版はPWM値をクランプしない
	if err := driver.SetPin(22, 150); err != nil {
		t.Fatalf("SetPin failed: %v", err)
	}
	if state := driver.PinState(22); state != 150 {
		t.Errorf("Expected unclamped state 150, got %d", state)
	}
}

func TestSimulatedDriver_InvalidMode(t *testing.T) {
	driver := NewSimulatedDriver()

	err := driver.SetupPin(17, Mode("OUT"))
	if err == nil {
		t.Fatal("Expected error for unknown mode")
	}

	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("Expected ConfigurationError, got %T", err)
	}
}

func TestSimulatedDriver_Cleanup(t *testing.T) {
	driver := NewSimulatedDriver()

	if err := driver.SetupPin(17, ModeDigitalOutput); err != nil {
		t.Fatalf("SetupPin failed: %v", err)
	}
	if err := driver.SetPin(17, 1); err != nil {
		t.Fatalf("SetPin failed: %v", err)
	}

	driver.Cleanup()

	// クリーンアップ後は全ピンが未設定扱い
	if state := driver.PinState(17); state != 0 {
		t.Errorf("Expected pin state 0 after cleanup, got %d", state)
	}
	if _, ok := driver.PinMode(17); ok {
		t.Error("Expected pin mode to be cleared after cleanup")
	}
}

func TestMode_Valid(t *testing.T) {
	if !ModeDigitalOutput.Valid() {
		t.Error("ModeDigitalOutput should be valid")
	}
	if !ModePWMOutput.Valid() {
		t.Error("ModePWMOutput should be valid")
	}
	if Mode("PWM").Valid() {
		t.Error("Legacy string mode should be invalid")
	}
	if Mode("").Valid() {
		t.Error("Empty mode should be invalid")
	}
}
