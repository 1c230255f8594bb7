package camera

import "context"

// BackendTag はキャプチャバックエンドの種別を表す
type BackendTag string

const (
	// BackendV4L2 はffmpeg経由の汎用フレームグラバー
	BackendV4L2 BackendTag = "v4l2"
	// BackendLibcamera はrpicam-still経由のPiカメラスタック
	BackendLibcamera BackendTag = "libcamera"
	// BackendNone はキャプチャ不能を表す
	BackendNone BackendTag = "none"
)

// Settings はキャプチャ設定を表す
type Settings struct {
	Width     int    // 画像幅
	Height    int    // 画像高さ
	Framerate int    // フレームレート (fps)
	Device    string // デバイスパス（例: /dev/video0）
}

// DefaultSettings は既定のキャプチャ設定を返す
func DefaultSettings() Settings {
	return Settings{
		Width:     640,
		Height:    480,
		Framerate: 30,
		Device:    "/dev/video0",
	}
}

// Backend はキャプチャバックエンドの戦略契約
//
// プローブはOpen → Configure → TestCaptureの順に呼び、どこかで
// 失敗したらReleaseしてから次の候補へ進む。採用後はCaptureのみを
// 使い、プロセス終了時にReleaseする。
type Backend interface {
	// Tag はバックエンド種別を返す
	Tag() BackendTag

	// Open はバックエンドを開く
	Open(ctx context.Context) error

	// Configure は解像度・フレームレートを適用する
	Configure(ctx context.Context, settings Settings) error

	// TestCapture は採用判定用に1フレーム取得を試みる
	TestCapture(ctx context.Context) ([]byte, error)

	// Capture は1フレームをJPEGバイト列として取得する
	Capture(ctx context.Context) ([]byte, error)

	// Release は取得済みリソースを解放する。何度呼んでもよい
	Release()
}

// Status はストリームの状態スナップショット
type Status struct {
	IsStreaming bool       `json:"is_streaming"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Framerate   int        `json:"framerate"`
	Backend     BackendTag `json:"backend"`
}
