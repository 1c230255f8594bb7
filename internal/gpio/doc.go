// Package gpio GPIOドライバの抽象化を担う
//
// # 責務
// - デジタル出力・PWM出力ピンの統一インターフェース
// - 開発環境向けのシミュレートドライバ
// - Raspberry Pi実機向けのハードウェアドライバ
// - 実行環境の自動判定とフォールバック選択
//
// # 使い分け
// このパッケージは以下の場合に使用する：
// - モーター等のアクチュエータをピン単位で制御したい
// - 実機なしで開発・テストを行いたい
// - 環境に応じてドライバを自動選択したい
//
// # 仕様
// - Driver: setup / set / state / cleanup の能力契約
// - SimulatedDriver: メモリ上のピン状態テーブルのみ、I/Oなし
// - HardwareDriver: go-rpio経由で物理ピンを駆動（BCM番号）
// - Factory: 検出シーケンスで実機/シミュレートを選択
//
// # 前提要件
//   - 実機動作には /dev/gpiomem へのアクセス権限が必要
//     sudo usermod -a -G gpio $USER
//
// 本パッケージ内部ではロックを行わない。同一ドライバへの操作は
// 呼び出し側で直列化すること。
package gpio
