package camera

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// プレースホルダに描くステータス文字列の上限
const placeholderTextLimit = 32

// 連続エラー時の劣化遅延
const (
	degradedDelay = 500 * time.Millisecond
	erroredDelay  = 1 * time.Second
)

// この回数を超えて連続失敗したらフレーム間隔を落とす
const degradeThreshold = 5

// Stream は復帰可能なMJPEGチャンク生成ループを提供する
//
// 確定済みのDescriptorを専有する。生成ループはストリームごとに
// 1本だけ走る単一の協調タスクで、is_streamingフラグを各イテレー
// ション先頭で確認し、キャプチャ層のエラーをすべて内部で吸収する。
// 複数の視聴者へはこのループからチャンクをファンアウトするため、
// 物理読み出しは常に1件ずつになる。停止→再開してもバックエンドの
// 再プローブは行わない。
type Stream struct {
	desc      *Descriptor
	streaming atomic.Bool

	// 物理キャプチャの直列化用（生成ループとスナップショットが共用）
	captureMu sync.Mutex

	// 視聴者レジストリとループ起動状態の保護用
	mu          sync.Mutex
	viewers     map[int]chan []byte
	nextViewer  int
	loopRunning bool

	// 生成ループだけが読み書きする
	consecutiveErrors int
}

// NewStream は新しいStreamを作成する
func NewStream(desc *Descriptor) *Stream {
	return &Stream{
		desc:    desc,
		viewers: make(map[int]chan []byte),
	}
}

// StartStreaming はストリーミングを開始する。既に開始済みなら何もしない
func (s *Stream) StartStreaming() {
	if s.streaming.CompareAndSwap(false, true) {
		log.Println("カメラストリーミングを開始しました")
	}
}

// StopStreaming はストリーミングを停止する。既に停止済みなら何もしない
//
// 実行中の生成ループは次のイテレーション先頭で停止を観測する。
func (s *Stream) StopStreaming() {
	if s.streaming.CompareAndSwap(true, false) {
		log.Println("カメラストリーミングを停止しました")
	}
}

// IsStreaming はストリーミング中かを返す
func (s *Stream) IsStreaming() bool {
	return s.streaming.Load()
}

// Status は現在の状態スナップショットを返す
func (s *Stream) Status() Status {
	settings := s.desc.Settings()
	return Status{
		IsStreaming: s.streaming.Load(),
		Width:       settings.Width,
		Height:      settings.Height,
		Framerate:   settings.Framerate,
		Backend:     s.desc.Tag(),
	}
}

// GetFrame は1フレームを取得する。取得できない場合はnil
//
// バックエンドのエラーはここで完全に吸収される。生成ループと同じ
// ミューテックスで直列化されるため、配信中でも安全に呼べる。
func (s *Stream) GetFrame(ctx context.Context) []byte {
	s.captureMu.Lock()
	frame, err := s.desc.GetFrame(ctx)
	s.captureMu.Unlock()

	if err != nil {
		return nil
	}
	return frame
}

// Frames は視聴者を登録し、MJPEGチャンクの受信チャンネルを返す
//
// チャンクの生成はストリームが専有する単一ループが行い、全視聴者へ
// ファンアウトされる。ストリーミングが停止するかコンテキストが
// 終了するとチャンネルはクローズされる。再度呼び出せばバックエンド
// を作り直さずに配信を再開できる。
func (s *Stream) Frames(ctx context.Context) <-chan []byte {
	out := make(chan []byte)

	s.mu.Lock()
	if !s.streaming.Load() {
		s.mu.Unlock()
		close(out)
		return out
	}

	sub := make(chan []byte, 1)
	id := s.nextViewer
	s.nextViewer++
	s.viewers[id] = sub

	if !s.loopRunning {
		s.loopRunning = true
		go s.run()
	}
	s.mu.Unlock()

	// 視聴者ごとの転送タスク。生成ループは視聴者のコンテキストを
	// 知らないため、切断の検出はここで行う
	go func() {
		defer close(out)
		defer s.dropViewer(id)

		for {
			select {
			case chunk, ok := <-sub:
				if !ok {
					return
				}
				select {
				case out <- chunk:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// run はチャンク生成ループ本体。ストリームにつき同時に1本だけ走る
func (s *Stream) run() {
	defer s.finishRun()

	s.consecutiveErrors = 0

	for s.streaming.Load() {
		s.captureMu.Lock()
		frame, err := s.desc.GetFrame(context.Background())
		s.captureMu.Unlock()

		var chunk []byte
		if err == nil && len(frame) > 0 {
			s.consecutiveErrors = 0
			chunk = buildChunk(frame)
		} else {
			s.consecutiveErrors++
			chunk = buildChunk(s.placeholderFrame(s.consecutiveErrors))
		}

		s.broadcast(chunk)

		time.Sleep(frameDelay(s.desc.Settings().Framerate, s.consecutiveErrors, err != nil))
	}
}

// finishRun は視聴者チャンネルを閉じてループの終了を記録する
func (s *Stream) finishRun() {
	s.mu.Lock()
	for id, sub := range s.viewers {
		close(sub)
		delete(s.viewers, id)
	}
	s.loopRunning = false
	s.mu.Unlock()
}

// broadcast はチャンクを全視聴者へファンアウトする
//
// 追いつけない視聴者は保留中の最古チャンクを捨てて最新で差し替える。
// 生成ループを1人の遅い視聴者に引きずられないようにするため。
func (s *Stream) broadcast(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.viewers {
		select {
		case sub <- chunk:
		default:
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- chunk:
			default:
			}
		}
	}
}

// dropViewer は視聴者をレジストリから外す
func (s *Stream) dropViewer(id int) {
	s.mu.Lock()
	delete(s.viewers, id)
	s.mu.Unlock()
}

// frameDelay はフレーム間隔を計算する
//
// 通常は1/framerate。連続エラーが閾値を超えたら劣化遅延、直近の
// 試行がエラーで終わった場合はさらに長い遅延で他の2つを上書きする。
func frameDelay(framerate, consecutiveErrors int, errored bool) time.Duration {
	if errored {
		return erroredDelay
	}
	if consecutiveErrors > degradeThreshold {
		return degradedDelay
	}
	if framerate <= 0 {
		framerate = 1
	}
	return time.Second / time.Duration(framerate)
}

// buildChunk はJPEGフレームをmultipartチャンクに包む
func buildChunk(frame []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("--frame\r\nContent-Type: image/jpeg\r\n\r\n")
	buf.Write(frame)
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// placeholderFrame はキャプチャ不能時の代替フレームを合成する
//
// 暗色の単色塗りにステータス文字列を重ねたJPEGを返す。合成まで
// 失敗することはないため、ストリームは決して途切れない。
func (s *Stream) placeholderFrame(consecutiveErrors int) []byte {
	settings := s.desc.Settings()

	img := image.NewRGBA(image.Rect(0, 0, settings.Width, settings.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 24, G: 24, B: 24, A: 255}), image.Point{}, draw.Src)

	text := fmt.Sprintf("no camera (%s) x%d", s.desc.Tag(), consecutiveErrors)
	if len(text) > placeholderTextLimit {
		text = text[:placeholderTextLimit]
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(16),
			Y: fixed.I(settings.Height / 2),
		},
	}
	drawer.DrawString(text)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		// 空フレームは返さない
		return []byte{0xFF, 0xD8, 0xFF, 0xD9}
	}
	return buf.Bytes()
}
