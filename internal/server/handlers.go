package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handleHealth はヘルスチェックエンドポイント
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleStatus はシステム状態取得エンドポイント
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "running",
		"server": gin.H{
			"host": s.config.Server.Host,
			"port": s.config.Server.Port,
		},
		"camera":    s.stream.Status(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleVideoFeed はMJPEGストリーミングエンドポイント
//
// 配信はクライアント切断かストリーミング停止まで続く。
func (s *Server) handleVideoFeed(c *gin.Context) {
	viewerID := uuid.New().String()
	log.Printf("ビューア %s (%s) がストリームを開始しました", viewerID, c.ClientIP())

	s.stream.StartStreaming()

	// レスポンスヘッダーを設定
	c.Header("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	writer := c.Writer

	// ストリーミングループ
	for chunk := range s.stream.Frames(c.Request.Context()) {
		if _, err := writer.Write(chunk); err != nil {
			break
		}
		writer.Flush()
	}

	log.Printf("ビューア %s の配信を終了しました", viewerID)
}

// handleSnapshot は単発フレーム取得エンドポイント
func (s *Server) handleSnapshot(c *gin.Context) {
	frame := s.stream.GetFrame(c.Request.Context())
	if frame == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "フレームを取得できませんでした",
		})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", frame)
}

// handleCameraStatus はカメラ状態取得エンドポイント
func (s *Server) handleCameraStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.stream.Status())
}

// handleCameraStart はストリーミング開始エンドポイント
func (s *Server) handleCameraStart(c *gin.Context) {
	s.stream.StartStreaming()
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "ストリーミングを開始しました"})
}

// handleCameraStop はストリーミング停止エンドポイント
func (s *Server) handleCameraStop(c *gin.Context) {
	s.stream.StopStreaming()
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "ストリーミングを停止しました"})
}

// handleMove は速度付きモーター操作の共通ハンドラを生成する
func (s *Server) handleMove(op func(float64) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		speed, ok := parseSpeed(c)
		if !ok {
			return
		}

		s.motorMu.Lock()
		err := op(speed)
		s.motorMu.Unlock()

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "speed": speed})
	}
}

// handleForwardTimed は時間指定の前進エンドポイント
//
// 指定秒数だけリクエストゴルーチンをブロックする。その間の他の
// モーター操作はミューテックスで待たされる。
func (s *Server) handleForwardTimed(c *gin.Context) {
	speed, ok := parseSpeed(c)
	if !ok {
		return
	}

	seconds, err := strconv.ParseFloat(c.DefaultQuery("seconds", "1"), 64)
	if err != nil || seconds <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "無効な秒数です"})
		return
	}

	s.motorMu.Lock()
	err = s.motors.ForwardFor(c.Request.Context(), speed, time.Duration(seconds*float64(time.Second)))
	s.motorMu.Unlock()

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "speed": speed, "seconds": seconds})
}

// handleMotorStop はモーター停止エンドポイント
func (s *Server) handleMotorStop(c *gin.Context) {
	s.motorMu.Lock()
	err := s.motors.Stop()
	s.motorMu.Unlock()

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "停止しました"})
}

// parseSpeed はリクエストから速度を取り出す
//
// 範囲外の値はコントローラ側でクランプされるため、数値として
// 解釈できれば受け付ける。
func parseSpeed(c *gin.Context) (float64, bool) {
	speed, err := strconv.ParseFloat(c.DefaultQuery("speed", "1.0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "無効な速度です"})
		return 0, false
	}
	return speed, true
}
