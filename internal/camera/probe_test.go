package camera

import (
	"context"
	"testing"
)

var testFrame = []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}

func TestProbe_SelectsFirstViableBackend(t *testing.T) {
	ctx := context.Background()

	// A: オープン失敗 / B: テストキャプチャ失敗 / C: 成功
	a := NewMockBackend(BackendTag("a"), testFrame)
	a.FailOpen = true
	b := NewMockBackend(BackendTag("b"), testFrame)
	b.FailTestCapture = true
	c := NewMockBackend(BackendTag("c"), testFrame)

	desc := Probe(ctx, DefaultSettings(), a, b, c)

	if desc.Tag() != BackendTag("c") {
		t.Fatalf("Expected backend c, got %s", desc.Tag())
	}

	// 失敗した候補はリソースを保持しない
	if !a.Released {
		t.Error("Backend a should be released after failed probe")
	}
	if !b.Released {
		t.Error("Backend b should be released after failed probe")
	}
	if c.Released {
		t.Error("Selected backend c must retain its handle")
	}
}

func TestProbe_ConfigureFailureReleases(t *testing.T) {
	ctx := context.Background()

	a := NewMockBackend(BackendTag("a"), testFrame)
	a.FailConfigure = true
	b := NewMockBackend(BackendTag("b"), testFrame)

	desc := Probe(ctx, DefaultSettings(), a, b)

	if desc.Tag() != BackendTag("b") {
		t.Fatalf("Expected backend b, got %s", desc.Tag())
	}
	if !a.Released {
		t.Error("Backend a should be released after configure failure")
	}
}

func TestProbe_EmptyTestFrameRejected(t *testing.T) {
	ctx := context.Background()

	// 空フレームしか返さない候補は採用しない
	a := NewMockBackend(BackendTag("a"), nil)
	b := NewMockBackend(BackendTag("b"), testFrame)

	desc := Probe(ctx, DefaultSettings(), a, b)

	if desc.Tag() != BackendTag("b") {
		t.Fatalf("Expected backend b, got %s", desc.Tag())
	}
}

func TestProbe_AllCandidatesFail(t *testing.T) {
	ctx := context.Background()

	a := NewMockBackend(BackendTag("a"), testFrame)
	a.FailOpen = true
	b := NewMockBackend(BackendTag("b"), testFrame)
	b.FailTestCapture = true

	desc := Probe(ctx, DefaultSettings(), a, b)

	if desc.Tag() != BackendNone {
		t.Fatalf("Expected backend none, got %s", desc.Tag())
	}

	// タグnoneではI/Oを試みず即座にフレームなし
	before := a.CaptureCalls + b.CaptureCalls
	frame, err := desc.GetFrame(ctx)
	if frame != nil || err != nil {
		t.Errorf("Expected (nil, nil) for backend none, got (%v, %v)", frame, err)
	}
	if a.CaptureCalls+b.CaptureCalls != before {
		t.Error("GetFrame with backend none must not perform any capture I/O")
	}
}

func TestDescriptor_GetFrame(t *testing.T) {
	ctx := context.Background()

	backend := NewMockBackend(BackendV4L2, testFrame)
	desc := Probe(ctx, DefaultSettings(), backend)

	frame, err := desc.GetFrame(ctx)
	if err != nil {
		t.Fatalf("GetFrame failed: %v", err)
	}
	if len(frame) == 0 {
		t.Fatal("Expected a non-empty frame")
	}

	// キャプチャ失敗はエラーとして返るが、フレームはnil
	backend.FailCapture = true
	frame, err = desc.GetFrame(ctx)
	if frame != nil {
		t.Error("Expected nil frame on capture failure")
	}
	if err == nil {
		t.Error("Expected transient error to be reported for delay selection")
	}
}
