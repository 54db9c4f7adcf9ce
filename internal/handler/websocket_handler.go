package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HistoryFeed godoc
// @Summary      기록 변경 알림 (WebSocket)
// @Description  기록이 생성/삭제/외부 변경될 때 `{"type":"created|deleted|changed","id":"...","at":"..."}` 메시지를 보냅니다.
// @Description  클라이언트는 메시지를 받으면 /api/history 를 다시 조회하면 됩니다.
// @Tags         History
// @Success      101 "Switching Protocols"
// @Router       /ws/history [get]
func (h *Handler) HistoryFeed(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Feed unavailable"})
		return
	}
	h.hub.ServeWS(c.Writer, c.Request)
}

// Health godoc
// @Summary      헬스 체크
// @Tags         System
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
