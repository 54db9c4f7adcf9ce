package models

import "time"

// TimestampLayout은 기록 ID와 JSON timestamp 필드에 쓰이는 시각 포맷
const TimestampLayout = "20060102_150405"

// DefaultPassingScore는 기본 합격 기준 점수
const DefaultPassingScore = 60

// EvaluationRecord는 저장된 평가 한 건. ID는 파일명 stem이며 JSON에는 직렬화되지 않는다.
type EvaluationRecord struct {
	ID              string    `json:"-"`
	Filename        string    `json:"filename"`
	Score           int       `json:"score"`
	BuyerScore      int       `json:"buyer_score"`
	ScoreDifference int       `json:"score_difference"`
	PassingScore    int       `json:"passing_score"`
	Passed          bool      `json:"passed"`
	Reason          string    `json:"reason"`
	Timestamp       string    `json:"timestamp"`
	EvalDuration    *float64  `json:"eval_duration,omitempty"`
	CreatedAt       time.Time `json:"-"`
}

// NewEvaluation은 저장 요청 시 호출자가 넘기는 값. ID와 생성 시각은 저장소가 채운다.
type NewEvaluation struct {
	OriginalName string
	Score        int
	BuyerScore   int
	PassingScore int
	Reason       string
	EvalDuration *float64
}

// RecordView는 API 응답용 평가 기록
type RecordView struct {
	ID              string    `json:"id" example:"20251017_100000_a1b2c3"`
	Filename        string    `json:"filename" example:"20251017_100000_a1b2c3.jpg"`
	Score           int       `json:"score" example:"80"`
	BuyerScore      int       `json:"buyer_score" example:"75"`
	ScoreDifference int       `json:"score_difference" example:"5"`
	PassingScore    int       `json:"passing_score" example:"60"`
	Passed          bool      `json:"passed" example:"true"`
	Reason          string    `json:"reason" example:"Trendy style and fit."`
	EvalDuration    *float64  `json:"eval_duration,omitempty" example:"12.5"`
	CreatedAt       time.Time `json:"created_at"`
}

func (r EvaluationRecord) View() RecordView {
	return RecordView{
		ID:              r.ID,
		Filename:        r.Filename,
		Score:           r.Score,
		BuyerScore:      r.BuyerScore,
		ScoreDifference: r.ScoreDifference,
		PassingScore:    r.PassingScore,
		Passed:          r.Passed,
		Reason:          r.Reason,
		EvalDuration:    r.EvalDuration,
		CreatedAt:       r.CreatedAt,
	}
}

// ScorePair는 그래프용 (machine, buyer) 점수 쌍
type ScorePair struct {
	Score      int `json:"score"`
	BuyerScore int `json:"buyer_score"`
}

// Summary는 전체 기록에 대한 통계. 기록이 없으면 평균 값은 nil.
type Summary struct {
	Count                  int         `json:"count"`
	AvgMachineScore        *float64    `json:"avg_machine_score"`
	AvgBuyerScore          *float64    `json:"avg_buyer_score"`
	AvgScoreDifference     *float64    `json:"avg_score_difference"`
	PassRate               *float64    `json:"pass_rate"`
	TotalEvaluationMinutes float64     `json:"total_evaluation_minutes"`
	ChronologicalSeries    []ScorePair `json:"chronological_series"`
}
