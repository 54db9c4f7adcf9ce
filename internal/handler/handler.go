/**
* Name: 			handler.go
* Description: 		Gin HTTP 핸들러 공통 의존성
* Workflow: 		업로드 → 점수 확인 → 저장, 기록 조회/삭제
 */
package handler

import (
	"FashionScoring_EvaluationProject/internal/history"
	"FashionScoring_EvaluationProject/internal/notify"
	"FashionScoring_EvaluationProject/internal/session"
	"FashionScoring_EvaluationProject/internal/storage"

	"go.uber.org/zap"
)

type Handler struct {
	sessions *session.Manager
	records  *storage.RecordStore
	history  *history.Aggregator
	hub      *notify.Hub
	logger   *zap.Logger
}

func NewHandler(sessions *session.Manager, records *storage.RecordStore, agg *history.Aggregator, hub *notify.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions: sessions,
		records:  records,
		history:  agg,
		hub:      hub,
		logger:   logger,
	}
}

func (h *Handler) publish(ev notify.Event) {
	if h.hub != nil {
		h.hub.Publish(ev)
	}
}
