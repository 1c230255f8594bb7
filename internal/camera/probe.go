package camera

import (
	"context"
	"log"
)

// Descriptor は確定済みバックエンドの記述子
//
// タグは一度確定したらプロセス終了まで変わらない。再プローブが
// 必要な場合はDescriptorごと作り直すこと。Streamが専有する。
type Descriptor struct {
	tag      BackendTag
	backend  Backend
	settings Settings
}

// Probe は候補バックエンドを順に試し、最初に使えたものを確定する
//
// 各候補についてOpen → Configure → TestCaptureを行い、空でない
// テストフレームが得られた時点で採用する。途中で失敗した候補は
// 確保済みリソースをReleaseしてから次へ進む。全滅した場合は
// タグ"none"の記述子を返し、以後のフレーム取得はI/Oなしで
// 「フレームなし」を返す。
func Probe(ctx context.Context, settings Settings, backends ...Backend) *Descriptor {
	for _, b := range backends {
		if err := b.Open(ctx); err != nil {
			log.Printf("バックエンド %s を開けませんでした: %v", b.Tag(), err)
			b.Release()
			continue
		}

		if err := b.Configure(ctx, settings); err != nil {
			log.Printf("バックエンド %s の設定に失敗: %v", b.Tag(), err)
			b.Release()
			continue
		}

		frame, err := b.TestCapture(ctx)
		if err != nil || len(frame) == 0 {
			log.Printf("バックエンド %s のテストキャプチャに失敗: %v", b.Tag(), err)
			b.Release()
			continue
		}

		log.Printf("キャプチャバックエンドを確定: %s (%dx%d @ %dfps)",
			b.Tag(), settings.Width, settings.Height, settings.Framerate)

		return &Descriptor{
			tag:      b.Tag(),
			backend:  b,
			settings: settings,
		}
	}

	log.Println("使用可能なキャプチャバックエンドがありません: タグ none で継続します")

	return &Descriptor{
		tag:      BackendNone,
		settings: settings,
	}
}

// Tag は確定済みのバックエンドタグを返す
func (d *Descriptor) Tag() BackendTag {
	return d.tag
}

// Settings は確定時のキャプチャ設定を返す
func (d *Descriptor) Settings() Settings {
	return d.settings
}

// GetFrame は1フレームを取得する
//
// タグがnoneの場合はI/Oを試みず即座に(nil, nil)を返す。バックエンド
// からのエラーは伝播させず、遅延計算用に返すだけに留める（単発の
// キャプチャ失敗をエスカレートさせないため）。
func (d *Descriptor) GetFrame(ctx context.Context) ([]byte, error) {
	if d.tag == BackendNone || d.backend == nil {
		return nil, nil
	}

	frame, err := d.backend.Capture(ctx)
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// Release は確定済みバックエンドのリソースを解放する
func (d *Descriptor) Release() {
	if d.backend != nil {
		d.backend.Release()
	}
}
