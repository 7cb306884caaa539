package models

import "time"

// Client хранит профиль клиента плюс производные поля статистики тестов.
// TotalTests/LatestScore/LastTestDate всегда выводятся из набора
// результатов тестов клиента, напрямую их никто не задаёт.
type Client struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	Name         string     `json:"name" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"not null"`
	Phone        string     `json:"phone,omitempty"`
	DateOfBirth  string     `json:"date_of_birth,omitempty"`
	Occupation   string     `json:"occupation,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	TotalTests   int        `json:"total_tests" gorm:"not null;default:0"`
	LatestScore  *int       `json:"latest_score,omitempty"`
	LastTestDate *time.Time `json:"last_test_date,omitempty"`
}
