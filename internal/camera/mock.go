package camera

import (
	"context"
	"fmt"
)

// MockBackend はテスト用のバックエンド実装
type MockBackend struct {
	BackendName BackendTag

	// テスト制御用
	FailOpen        bool
	FailConfigure   bool
	FailTestCapture bool
	FailCapture     bool
	Frame           []byte

	// 呼び出し記録
	OpenCalls    int
	CaptureCalls int
	ReleaseCalls int
	Released     bool
}

// NewMockBackend は新しいMockBackendを作成する
func NewMockBackend(tag BackendTag, frame []byte) *MockBackend {
	return &MockBackend{
		BackendName: tag,
		Frame:       frame,
	}
}

// Tag はバックエンド種別を返す
func (m *MockBackend) Tag() BackendTag {
	return m.BackendName
}

// Open はモックのオープン処理
func (m *MockBackend) Open(_ context.Context) error {
	m.OpenCalls++
	if m.FailOpen {
		return fmt.Errorf("モック: オープンに失敗")
	}
	m.Released = false
	return nil
}

// Configure はモックの設定処理
func (m *MockBackend) Configure(_ context.Context, _ Settings) error {
	if m.FailConfigure {
		return fmt.Errorf("モック: 設定に失敗")
	}
	return nil
}

// TestCapture はモックのテストキャプチャ
func (m *MockBackend) TestCapture(ctx context.Context) ([]byte, error) {
	if m.FailTestCapture {
		return nil, fmt.Errorf("モック: テストキャプチャに失敗")
	}
	return m.Capture(ctx)
}

// Capture はモックのキャプチャ処理
func (m *MockBackend) Capture(_ context.Context) ([]byte, error) {
	m.CaptureCalls++
	if m.FailCapture {
		return nil, fmt.Errorf("モック: キャプチャに失敗")
	}
	return m.Frame, nil
}

// Release はモックの解放処理
func (m *MockBackend) Release() {
	m.ReleaseCalls++
	m.Released = true
}
