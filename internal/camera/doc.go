// Package camera カメラキャプチャとストリーミング生成を担う
//
// # 責務
// - キャプチャバックエンドの順次プローブと選択
// - 選択済みバックエンドからの単発フレーム取得
// - 失敗を吸収し続けるMJPEGチャンク生成ループ
// - キャプチャ不能時のプレースホルダ画像合成
//
// # 使い分け
// このパッケージは以下の場合に使用する：
// - 存在するカメラを自動選択してストリーミングしたい
// - カメラがない環境でもストリームを止めたくない
// - フレーム単位の失敗をクライアントへ波及させたくない
//
// # 仕様
// - Backend: open / configure / test-capture / capture / release の戦略契約
// - Probe: 候補を順に試し、最初にテストキャプチャが通ったものを確定
// - Stream: is_streamingフラグ駆動の復帰可能な生成ループ
// - バックエンドタグは一度確定したらプロセス終了まで不変
//
// # 前提要件
//   - v4l-utils: デバイス確認に使用
//     Ubuntu/Debian: sudo apt install v4l-utils
//   - ffmpeg: V4L2バックエンドのキャプチャに使用
//     Ubuntu/Debian: sudo apt install ffmpeg
//   - rpicam-apps: Piカメラバックエンドに使用（実機のみ）
//
// 選択済みバックエンドへの物理読み出しは同時に1つまで。Streamの
// 生成ループが唯一の読み出し元になるよう、複数クライアントへは
// ループの出力チャンネルを介して配信すること。
package camera
