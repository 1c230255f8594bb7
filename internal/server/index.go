package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleIndex は操作ページを返す
func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <title>Daichi - ローバー操作</title>
    <style>
        body { font-family: sans-serif; margin: 2rem; background: #1a1a1a; color: #eee; }
        img { border: 1px solid #444; max-width: 100%; }
        .controls { margin-top: 1rem; }
        button { font-size: 1.2rem; padding: 0.5rem 1rem; margin: 0.2rem; }
    </style>
</head>
<body>
    <h1>Daichi ローバー</h1>
    <img src="/camera/video_feed" alt="camera stream">
    <div class="controls">
        <div>
            <button onclick="send('forward')">前進</button>
        </div>
        <div>
            <button onclick="send('left')">左</button>
            <button onclick="send('stop')">停止</button>
            <button onclick="send('right')">右</button>
        </div>
        <div>
            <button onclick="send('backward')">後退</button>
        </div>
        <label>速度 <input id="speed" type="range" min="0" max="1" step="0.1" value="0.5"></label>
    </div>
    <p>ステータス: <a href="/api/status">/api/status</a></p>
    <script>
        function send(cmd) {
            const speed = document.getElementById('speed').value;
            fetch('/motor/' + cmd + '?speed=' + speed, { method: 'POST' });
        }
    </script>
</body>
</html>`
