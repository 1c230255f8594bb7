package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"daichi/internal/camera"
	"daichi/internal/config"
	"daichi/internal/motor"
)

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	engine     *gin.Engine
	httpServer *http.Server

	motors *motor.Controller
	stream *camera.Stream

	// モーター操作の直列化用
	motorMu sync.Mutex
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, motors *motor.Controller, stream *camera.Stream) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		config: cfg,
		engine: engine,
		motors: motors,
		stream: stream,
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	s.setupRoutes()
	return s
}

// setupRoutes はHTTPルートを設定する
func (s *Server) setupRoutes() {
	// ルートとヘルスチェック
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/api/status", s.handleStatus)

	// カメラエンドポイント
	cam := s.engine.Group("/camera")
	{
		cam.GET("/video_feed", s.handleVideoFeed)
		cam.GET("/snapshot", s.handleSnapshot)
		cam.GET("/status", s.handleCameraStatus)
		// ブラウザから直接叩けるようGETも受け付ける
		cam.GET("/start", s.handleCameraStart)
		cam.POST("/start", s.handleCameraStart)
		cam.GET("/stop", s.handleCameraStop)
		cam.POST("/stop", s.handleCameraStop)
	}

	// モーターエンドポイント
	mot := s.engine.Group("/motor")
	{
		mot.POST("/forward", s.handleMove(s.motors.Forward))
		mot.POST("/backward", s.handleMove(s.motors.Backward))
		mot.POST("/left", s.handleMove(s.motors.TurnLeft))
		mot.POST("/right", s.handleMove(s.motors.TurnRight))
		mot.POST("/forward_timed", s.handleForwardTimed)
		mot.POST("/stop", s.handleMotorStop)
	}
}

// Start はサーバーを起動し、シグナルまたはコンテキスト終了まで待機する
func (s *Server) Start(ctx context.Context) error {
	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		log.Printf("HTTPサーバーを起動しています: %s", s.config.ServerAddress())
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			shutdownCh <- fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		log.Printf("シグナルを受信しました: %v", sig)
	case err := <-shutdownCh:
		return err
	}

	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
//
// 先にストリーミングを止めて配信ループを終わらせてから
// HTTPサーバーを閉じる。
func (s *Server) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")

	s.stream.StopStreaming()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}
