package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.skin_analyses (
//     id          UUID PRIMARY KEY,
//     user_id     BIGINT NOT NULL,
//     user_input  JSONB NOT NULL,
//     status      TEXT NOT NULL,
//     result      JSONB,
//     error       TEXT,
//     created_at  TIMESTAMPTZ DEFAULT NOW(),
//     updated_at  TIMESTAMPTZ DEFAULT NOW()
// );

type AnalysisStatus string

const (
	AnalysisPending AnalysisStatus = "PENDING"
	AnalysisDone    AnalysisStatus = "DONE"
	AnalysisFailed  AnalysisStatus = "FAILED"
)

type Analysis struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uint           `gorm:"column:user_id;not null;index" json:"user_id"`
	UserInput datatypes.JSON `gorm:"column:user_input;type:jsonb;not null" json:"user_input"`
	Status    AnalysisStatus `gorm:"column:status;type:text;not null" json:"status"`
	Result    datatypes.JSON `gorm:"column:result;type:jsonb" json:"result,omitempty"`
	Error     string         `gorm:"column:error;type:text" json:"error,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Analysis) TableName() string {
	return "skin_analyses"
}

// Recommendation stores the items served for one analysis.
type Recommendation struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"column:user_id;not null" json:"user_id"`
	AnalysisID string         `gorm:"column:analysis_id;type:uuid;index" json:"analysis_id"`
	Items      datatypes.JSON `gorm:"column:items;type:jsonb;not null" json:"items"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}

// AnalysisResult is the JSON stored in Analysis.Result.
type AnalysisResult struct {
	Fusion          SkinProfile  `json:"fusion"`
	Recommendations []RankedItem `json:"recommendations"`
}

var ErrAnalysisNotFound = errors.New("analysis not found")
