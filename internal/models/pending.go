package models

import "time"

// PendingEvaluation은 업로드 후 저장 전까지 유지되는 점수 캐시 (fingerprint 기준)
type PendingEvaluation struct {
	Token        string
	Fingerprint  string
	OriginalName string
	MediaType    string
	StagedPath   string
	Size         int64
	Score        int
	Reason       string
	StartedAt    time.Time
	RecordID     string
}

func (p PendingEvaluation) Saved() bool { return p.RecordID != "" }
