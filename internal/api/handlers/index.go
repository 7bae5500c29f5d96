package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>FixerMob Backend API</title>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; background: #f5f5f5; }
        .container { background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        h1 { color: #333; }
        .status { padding: 15px; background: #4CAF50; color: white; border-radius: 5px; margin: 20px 0; }
        .endpoint { background: #f9f9f9; padding: 15px; margin: 10px 0; border-left: 4px solid #2196F3; border-radius: 4px; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; font-family: monospace; }
    </style>
</head>
<body>
    <div class="container">
        <h1>FixerMob Backend API</h1>
        <div class="status">Сервер работает</div>

        <h2>Доступные endpoints:</h2>

        <div class="endpoint">
            <strong>GET /api/health</strong><br>
            Проверка работоспособности API<br>
            <a href="/api/health" target="_blank">Попробовать →</a>
        </div>

        <div class="endpoint">
            <strong>POST /api/protocols/video</strong><br>
            Загрузка видео протокола<br>
            Параметры: <code>device_id</code>, <code>video</code> (file)
        </div>

        <div class="endpoint">
            <strong>POST /api/protocols/photos</strong><br>
            Загрузка фото протокола<br>
            Параметры: <code>device_id</code>, <code>photos</code> (files)
        </div>

        <div class="endpoint">
            <strong>POST /api/protocols/screenshots</strong><br>
            Загрузка скриншотов протокола<br>
            Параметры: <code>device_id</code>, <code>screenshots</code> (files)
        </div>

        <div class="endpoint">
            <strong>GET /api/protocols?device_id={id}</strong><br>
            Получение списка протоколов<br>
            <a href="/api/protocols?device_id=TEST" target="_blank">Попробовать →</a>
        </div>

        <div class="endpoint">
            <strong>GET /api/protocols/{id}/pdf</strong><br>
            Скачивание PDF протокола
        </div>
    </div>
</body>
</html>
`

// Index serves a small informational page for manual testing.
func (h *ProtocolHandlers) Index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, indexHTML)
}
