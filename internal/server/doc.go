// Package server ローバーのHTTPインターフェースを担う
//
// # 責務
// - モーター操作エンドポイントの提供と直列化
// - MJPEGストリーミング配信
// - システム状態の公開とヘルスチェック
// - グレースフルシャットダウン
//
// モーターのピン状態は保護されない共有ハードウェア状態のため、
// モーター操作はサーバー層のミューテックスで1件ずつ直列化する。
// 時間指定の前進はリクエストゴルーチンを専有してブロックする。
package server
