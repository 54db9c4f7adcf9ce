package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"FashionScoring_EvaluationProject/internal/archiver"
	"FashionScoring_EvaluationProject/internal/models"
	"FashionScoring_EvaluationProject/internal/notify"
	"FashionScoring_EvaluationProject/internal/session"
	"FashionScoring_EvaluationProject/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadEvaluations godoc
// @Summary      코디 사진/영상 업로드 및 채점
// @Description  multipart `files` 필드로 이미지(.jpg/.jpeg/.png) 또는 영상(.mp4/.mov/.avi)을 여러 개 올립니다.
// @Description  같은 파일(이름+크기)을 저장 전에 다시 올리면 처음 받은 점수를 그대로 돌려줍니다.
// @Tags         Evaluation
// @Accept       multipart/form-data
// @Produce      json
// @Param        files formData file true "평가할 미디어 파일 (여러 개 가능)"
// @Success      200 {object} handler.UploadResponse
// @Failure      400 {object} handler.ErrorResponse "파일 없음 또는 모든 파일이 지원되지 않음"
// @Failure      413 {object} handler.ErrorResponse "업로드 용량 초과"
// @Failure      429 {object} handler.ErrorResponse "요청 과다"
// @Router       /api/evaluations [post]
func (h *Handler) UploadEvaluations(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	resp := UploadResponse{Evaluations: []PendingResponse{}}
	for _, fh := range files {
		pe, reused, err := h.beginUpload(c, fh)
		if err != nil {
			h.logger.Warn("UploadEvaluations(): file rejected", zap.String("file", fh.Filename), zap.Error(err))
			resp.Errors = append(resp.Errors, UploadError{File: fh.Filename, Error: uploadErrorMessage(err)})
			continue
		}
		resp.Evaluations = append(resp.Evaluations, pendingResponse(pe, h.sessions.PassingScore(), reused))
	}

	if len(resp.Evaluations) == 0 {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) beginUpload(c *gin.Context, fh *multipart.FileHeader) (pe models.PendingEvaluation, reused bool, err error) {
	f, err := fh.Open()
	if err != nil {
		return pe, false, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return pe, false, err
	}
	return h.sessions.Begin(c.Request.Context(), session.Upload{
		Name:      fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Size:      fh.Size,
		Data:      data,
	})
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, archiver.ErrUnsupportedMedia):
		return "unsupported media type"
	case errors.Is(err, archiver.ErrEmptyMedia):
		return "empty file"
	default:
		return "failed to process file"
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// GetEvaluation godoc
// @Summary      업로드된(저장 전) 평가 조회
// @Tags         Evaluation
// @Produce      json
// @Param        token path string true "업로드 시 받은 토큰"
// @Success      200 {object} handler.PendingResponse
// @Failure      404 {object} handler.ErrorResponse "토큰 없음"
// @Router       /api/evaluations/{token} [get]
func (h *Handler) GetEvaluation(c *gin.Context) {
	pe, err := h.sessions.Get(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, storage.ErrPendingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Evaluation not found"})
			return
		}
		h.logger.Error("GetEvaluation(): lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load evaluation"})
		return
	}
	c.JSON(http.StatusOK, pendingResponse(pe, h.sessions.PassingScore(), false))
}

// SaveEvaluation godoc
// @Summary      구매자 점수 입력 후 평가 저장
// @Description  buyer_score(0~100)를 받아 평가 기록을 저장합니다. 이미 저장된 토큰이면 409와 기존 id를 돌려줍니다.
// @Tags         Evaluation
// @Accept       json
// @Produce      json
// @Param        token   path string              true "업로드 시 받은 토큰"
// @Param        request body handler.SaveRequest true "구매자 점수"
// @Success      201 {object} handler.SaveResponse
// @Failure      400 {object} handler.ErrorResponse "잘못된 점수"
// @Failure      404 {object} handler.ErrorResponse "토큰 없음"
// @Failure      409 {object} map[string]string "이미 저장됨 (id 포함)"
// @Failure      500 {object} handler.ErrorResponse "저장 실패"
// @Router       /api/evaluations/{token}/save [post]
func (h *Handler) SaveEvaluation(c *gin.Context) {
	var req SaveRequest
	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if err := json.Unmarshal(rawData, &req); err != nil || req.BuyerScore == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buyer_score is required"})
		return
	}

	token := c.Param("token")
	id, err := h.sessions.Save(c.Request.Context(), token, *req.BuyerScore)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrInvalidBuyerScore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, session.ErrAlreadySaved):
		c.JSON(http.StatusConflict, gin.H{"error": "Evaluation already saved", "id": id})
		return
	case errors.Is(err, storage.ErrPendingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Evaluation not found"})
		return
	default:
		h.logger.Error("SaveEvaluation(): failed to save record", zap.String("token", token), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save evaluation"})
		return
	}

	rec, err := h.records.Get(id)
	if err != nil {
		h.logger.Error("SaveEvaluation(): saved record not readable", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load saved record"})
		return
	}
	h.publish(notify.Event{Type: notify.EventCreated, ID: id})
	c.JSON(http.StatusCreated, SaveResponse{ID: id, Record: rec.View()})
}

// DiscardEvaluation godoc
// @Summary      저장하지 않고 평가 취소
// @Tags         Evaluation
// @Produce      json
// @Param        token path string true "업로드 시 받은 토큰"
// @Success      204
// @Failure      404 {object} handler.ErrorResponse "토큰 없음"
// @Router       /api/evaluations/{token} [delete]
func (h *Handler) DiscardEvaluation(c *gin.Context) {
	if err := h.sessions.Discard(c.Request.Context(), c.Param("token")); err != nil {
		if errors.Is(err, storage.ErrPendingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Evaluation not found"})
			return
		}
		h.logger.Error("DiscardEvaluation(): failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to discard evaluation"})
		return
	}
	c.Status(http.StatusNoContent)
}
