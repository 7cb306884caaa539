package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ExerciseScore описывает оценку одного упражнения внутри результата теста.
type ExerciseScore struct {
	Score int    `json:"score"`
	Pain  bool   `json:"pain"`
	Notes string `json:"notes,omitempty"`
}

// ScoreMap хранится как JSONB-колонка, ключи берутся из каталога упражнений.
type ScoreMap map[string]ExerciseScore

func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *ScoreMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for ScoreMap: %T", value)
	}
	return json.Unmarshal(data, m)
}

// Total суммирует баллы всех упражнений.
func (m ScoreMap) Total() int {
	total := 0
	for _, s := range m {
		total += s.Score
	}
	return total
}

// TestResult описывает один проведённый FMS-тест клиента.
type TestResult struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	ClientID      string    `json:"client_id" gorm:"size:36;index;not null"`
	TestDate      time.Time `json:"test_date"`
	Scores        ScoreMap  `json:"scores" gorm:"type:jsonb"`
	TotalScore    int       `json:"total_score" gorm:"not null"`
	AssessorNotes string    `json:"assessor_notes,omitempty"`
}
