package handler

import (
	"errors"
	"net/http"

	"FashionScoring_EvaluationProject/internal/notify"
	"FashionScoring_EvaluationProject/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetHistory godoc
// @Summary      평가 기록 조회
// @Description  저장된 평가 기록 목록을 최신순으로 반환합니다. 미디어가 없는 기록이나 손상된 기록은 제외됩니다.
// @Tags         History
// @Produce      json
// @Success      200 {object} handler.HistoryResponse
// @Router       /api/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, HistoryResponse{History: recordViews(h.history.List())})
}

// GetSummary godoc
// @Summary      평가 통계
// @Description  기록 수, 평균 점수, 평균 점수 차이, 합격률, 누적 평가 시간(분), 시간순 점수 쌍을 반환합니다.
// @Description  기록이 없으면 평균 값은 null 입니다.
// @Tags         History
// @Produce      json
// @Success      200 {object} models.Summary
// @Router       /api/history/summary [get]
func (h *Handler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.history.Summary())
}

// GetRecord godoc
// @Summary      평가 기록 단건 조회
// @Tags         History
// @Produce      json
// @Param        id path string true "기록 ID (YYYYMMDD_HHMMSS_xxxxxx)"
// @Success      200 {object} models.RecordView
// @Failure      404 {object} handler.ErrorResponse "기록 없음"
// @Router       /api/history/{id} [get]
func (h *Handler) GetRecord(c *gin.Context) {
	rec, err := h.records.Get(c.Param("id"))
	if err != nil {
		if isMissingRecord(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		h.logger.Error("GetRecord(): failed to load record", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load record"})
		return
	}
	c.JSON(http.StatusOK, rec.View())
}

// DeleteRecord godoc
// @Summary      평가 기록 삭제
// @Description  메타데이터와 미디어 파일을 함께 삭제합니다.
// @Tags         History
// @Produce      json
// @Param        id path string true "기록 ID"
// @Success      200 {object} handler.DeleteResponse
// @Failure      404 {object} handler.ErrorResponse "기록 없음"
// @Failure      500 {object} handler.ErrorResponse "삭제 실패"
// @Router       /api/history/{id} [delete]
func (h *Handler) DeleteRecord(c *gin.Context) {
	id := c.Param("id")
	if err := h.records.Delete(id); err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) || errors.Is(err, storage.ErrInvalidID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		h.logger.Error("DeleteRecord(): failed to delete record", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		return
	}
	h.publish(notify.Event{Type: notify.EventDeleted, ID: id})
	c.JSON(http.StatusOK, DeleteResponse{Deleted: id})
}

// StreamMedia godoc
// @Summary      평가 미디어 재생 (스트리밍)
// @Description  기록의 이미지/영상 파일을 반환합니다. Range 요청을 지원합니다.
// @Tags         History
// @Produce      octet-stream
// @Param        filename path string true "미디어 파일명 (예: 20251017_100000_a1b2c3.jpg)"
// @Success      200 {file} file "미디어 파일 스트림"
// @Failure      404 {object} handler.ErrorResponse "파일을 찾을 수 없음"
// @Router       /api/media/{filename} [get]
func (h *Handler) StreamMedia(c *gin.Context) {
	path, err := h.records.MediaPath(c.Param("filename"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media file not found"})
		return
	}
	c.File(path)
}

func isMissingRecord(err error) bool {
	return errors.Is(err, storage.ErrRecordNotFound) ||
		errors.Is(err, storage.ErrInvalidID) ||
		errors.Is(err, storage.ErrOrphanRecord) ||
		errors.Is(err, storage.ErrCorruptRecord)
}

