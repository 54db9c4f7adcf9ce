package handler

import (
	"time"

	"FashionScoring_EvaluationProject/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error" example:"Record not found"`
}

// 업로드 직후 반환되는 점수 정보
type PendingResponse struct {
	Token         string    `json:"token" example:"3f1c2b9e-6a4d-4f0e-9d51-2f8f7f1b6c3a"`
	Fingerprint   string    `json:"fingerprint" example:"look.jpg_52341"`
	OriginalName  string    `json:"original_name" example:"look.jpg"`
	MediaType     string    `json:"media_type" example:"image/jpeg"`
	Score         int       `json:"score" example:"72"`
	Reason        string    `json:"reason" example:"Classic look with modern touches."`
	PassingScore  int       `json:"passing_score" example:"60"`
	Passed        bool      `json:"passed" example:"true"`
	StartedAt     time.Time `json:"started_at"`
	Reused        bool      `json:"reused" example:"false"`
	SavedRecordID string    `json:"saved_record_id,omitempty"`
}

type UploadError struct {
	File  string `json:"file" example:"notes.txt"`
	Error string `json:"error" example:"unsupported media type"`
}

type UploadResponse struct {
	Evaluations []PendingResponse `json:"evaluations"`
	Errors      []UploadError     `json:"errors,omitempty"`
}

type SaveRequest struct {
	BuyerScore *int `json:"buyer_score" example:"75"`
}

type SaveResponse struct {
	ID     string            `json:"id" example:"20251017_100000_a1b2c3"`
	Record models.RecordView `json:"record"`
}

type HistoryResponse struct {
	History []models.RecordView `json:"history"`
}

type DeleteResponse struct {
	Deleted string `json:"deleted" example:"20251017_100000_a1b2c3"`
}

func pendingResponse(pe models.PendingEvaluation, passingScore int, reused bool) PendingResponse {
	return PendingResponse{
		Token:         pe.Token,
		Fingerprint:   pe.Fingerprint,
		OriginalName:  pe.OriginalName,
		MediaType:     pe.MediaType,
		Score:         pe.Score,
		Reason:        pe.Reason,
		PassingScore:  passingScore,
		Passed:        pe.Score >= passingScore,
		StartedAt:     pe.StartedAt,
		Reused:        reused,
		SavedRecordID: pe.RecordID,
	}
}

func recordViews(records []models.EvaluationRecord) []models.RecordView {
	views := make([]models.RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, r.View())
	}
	return views
}
