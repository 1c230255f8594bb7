package gpio

import (
	"log"
	"os"
	"strings"
)

// Factory は実行環境を判定して適切なドライバを生成する
//
// 判定に使うパスはフィールドとして公開しており、テストでは
// 一時ファイルに差し替えられる。
type Factory struct {
	// ModelPath はデバイスツリーのモデル記述ファイル
	ModelPath string
	// CPUInfoPath はCPU情報ファイル
	CPUInfoPath string
	// EnvVar は実機扱いを強制する環境変数名
	EnvVar string
	// GPIOMemPath はGPIOアクセス用キャラクタデバイス
	GPIOMemPath string
}

// NewFactory は標準のパス設定でFactoryを作成する
func NewFactory() *Factory {
	return &Factory{
		ModelPath:   "/sys/firmware/devicetree/base/model",
		CPUInfoPath: "/proc/cpuinfo",
		EnvVar:      "RASPBERRY_PI",
		GPIOMemPath: "/dev/gpiomem",
	}
}

// New は環境に応じたドライバを生成する
//
// 実機シグネチャが検出された場合はHardwareDriverの構築を試み、
// 失敗したらログを残してSimulatedDriverへフォールバックする。
// 結果は常に使用可能なドライバになる。
func (f *Factory) New() Driver {
	detected, reason := f.detect()
	if !detected {
		log.Println("実機シグネチャなし: シミュレートGPIOを使用します")
		return NewSimulatedDriver()
	}

	log.Printf("実機シグネチャを検出 (%s): 実機GPIOを初期化します", reason)

	driver, err := NewHardwareDriver()
	if err != nil {
		log.Printf("実機GPIOの初期化に失敗: %v", err)
		log.Println("シミュレートGPIOへフォールバックします")
		return NewSimulatedDriver()
	}

	return driver
}

// detect は順序付きの短絡評価で実機シグネチャを探す
func (f *Factory) detect() (bool, string) {
	// 1. デバイスツリーのモデル記述
	if data, err := os.ReadFile(f.ModelPath); err == nil {
		if strings.Contains(strings.ToLower(string(data)), "raspberry pi") {
			return true, "devicetree model"
		}
	}

	// 2. CPU情報
	if data, err := os.ReadFile(f.CPUInfoPath); err == nil {
		lower := strings.ToLower(string(data))
		if strings.Contains(lower, "raspberry") || strings.Contains(lower, "bcm") {
			return true, "cpuinfo"
		}
	}

	// 3. 環境変数による明示指定
	if os.Getenv(f.EnvVar) != "" {
		return true, "環境変数 " + f.EnvVar
	}

	// 4. GPIOデバイスの存在
	if _, err := os.Stat(f.GPIOMemPath); err == nil {
		return true, f.GPIOMemPath
	}

	return false, ""
}
