package gpio

import (
	"os"
	"path/filepath"
	"testing"
)

// newTestFactory は判定パスを一時ディレクトリに向けたFactoryを作成する
func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	dir := t.TempDir()

	return &Factory{
		ModelPath:   filepath.Join(dir, "model"),
		CPUInfoPath: filepath.Join(dir, "cpuinfo"),
		EnvVar:      "DAICHI_TEST_FORCE_PI",
		GPIOMemPath: filepath.Join(dir, "gpiomem"),
	}
}

func TestFactory_NoSignature(t *testing.T) {
	factory := newTestFactory(t)

	detected, _ := factory.detect()
	if detected {
		t.Error("Expected no hardware signature in clean environment")
	}

	// シグネチャなしではシミュレートドライバを直接選択
	driver := factory.New()
	if _, ok := driver.(*SimulatedDriver); !ok {
		t.Errorf("Expected SimulatedDriver, got %T", driver)
	}
}

func TestFactory_DeviceTreeModel(t *testing.T) {
	factory := newTestFactory(t)

	if err := os.WriteFile(factory.ModelPath, []byte("Raspberry Pi 4 Model B Rev 1.4"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	detected, reason := factory.detect()
	if !detected {
		t.Fatal("Expected detection via devicetree model")
	}
	if reason != "devicetree model" {
		t.Errorf("Expected reason 'devicetree model', got %q", reason)
	}
}

func TestFactory_CPUInfo(t *testing.T) {
	factory := newTestFactory(t)

	if err := os.WriteFile(factory.CPUInfoPath, []byte("Hardware\t: BCM2711\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	detected, reason := factory.detect()
	if !detected {
		t.Fatal("Expected detection via cpuinfo")
	}
	if reason != "cpuinfo" {
		t.Errorf("Expected reason 'cpuinfo', got %q", reason)
	}
}

func TestFactory_EnvOverride(t *testing.T) {
	factory := newTestFactory(t)
	t.Setenv(factory.EnvVar, "1")

	detected, _ := factory.detect()
	if !detected {
		t.Fatal("Expected detection via environment variable")
	}
}

func TestFactory_GPIOMem(t *testing.T) {
	factory := newTestFactory(t)

	if err := os.WriteFile(factory.GPIOMemPath, nil, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	detected, _ := factory.detect()
	if !detected {
		t.Fatal("Expected detection via gpiomem device")
	}
}

func TestFactory_DowngradeIsTotal(t *testing.T) {
	factory := newTestFactory(t)
	t.Setenv(factory.EnvVar, "1")

	// 実機扱いが強制されても、実機GPIOを開けない環境では
	// シミュレートドライバへ降格して必ず使用可能なドライバを返す
	driver := factory.New()
	if driver == nil {
		t.Fatal("Factory must always return a usable driver")
	}

	if err := driver.SetupPin(17, ModeDigitalOutput); err != nil {
		t.Fatalf("Returned driver is not usable: %v", err)
	}
	driver.Cleanup()
}
