package camera

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// LibcameraBackend はPiカメラスタック専用のバックエンド
//
// rpicam-still（旧libcamera-still）を起動して1フレームずつ取得する。
// CSIカメラはV4L2経由では扱いが安定しないため、専用コマンドを使う。
type LibcameraBackend struct {
	binary   string
	settings Settings
}

// NewLibcameraBackend は新しいLibcameraBackendを作成する
func NewLibcameraBackend() *LibcameraBackend {
	return &LibcameraBackend{}
}

// Tag はバックエンド種別を返す
func (b *LibcameraBackend) Tag() BackendTag {
	return BackendLibcamera
}

// Open はrpicam-stillコマンドの存在を確認する
func (b *LibcameraBackend) Open(_ context.Context) error {
	// 新旧どちらのコマンド名でも使えるようにする
	for _, name := range []string{"rpicam-still", "libcamera-still"} {
		if path, err := exec.LookPath(name); err == nil {
			b.binary = path
			return nil
		}
	}

	return fmt.Errorf("rpicam-still / libcamera-still が見つかりません")
}

// Configure は解像度を記録する
func (b *LibcameraBackend) Configure(_ context.Context, settings Settings) error {
	if b.binary == "" {
		return fmt.Errorf("バックエンドが開かれていません")
	}
	if settings.Width <= 0 || settings.Height <= 0 {
		return fmt.Errorf("無効な解像度: %dx%d", settings.Width, settings.Height)
	}

	b.settings = settings
	return nil
}

// TestCapture はタイムアウト付きで1フレーム取得を試みる
func (b *LibcameraBackend) TestCapture(ctx context.Context) ([]byte, error) {
	testCtx, cancel := context.WithTimeout(ctx, testCaptureTimeout)
	defer cancel()

	return b.Capture(testCtx)
}

// Capture はrpicam-stillで1フレームをJPEGとしてキャプチャする
func (b *LibcameraBackend) Capture(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx,
		b.binary,
		"--nopreview",
		"--immediate",
		"--encoding", "jpg",
		"--width", strconv.Itoa(b.settings.Width),
		"--height", strconv.Itoa(b.settings.Height),
		"--output", "-",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("Piカメラのキャプチャに失敗: %w (stderr: %s)", err, stderr.String())
	}

	return stdout.Bytes(), nil
}

// Release はバックエンドを閉じる
func (b *LibcameraBackend) Release() {
	b.binary = ""
}
