package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	CreateClient(ctx context.Context, client *Client) error
	ListClients(ctx context.Context) ([]Client, error)
	GetClientByID(ctx context.Context, id string) (*Client, error)
	// UpdateClientFields применяет частичное обновление: меняются только
	// переданные колонки. Пустую карту сюда не передают.
	UpdateClientFields(ctx context.Context, id string, fields map[string]interface{}) (*Client, error)
	// DeleteClientCascade удаляет сначала все результаты тестов клиента,
	// затем самого клиента.
	DeleteClientCascade(ctx context.Context, id string) error

	CreateTestResult(ctx context.Context, result *TestResult) error
	GetTestResultByID(ctx context.Context, id string) (*TestResult, error)
	ListTestResultsByClient(ctx context.Context, clientID string) ([]TestResult, error)
	DeleteTestResult(ctx context.Context, id string) error

	// IncrementClientStats реализует путь инкремента: одно атомарное условное
	// обновление, без чтения перед записью.
	IncrementClientStats(ctx context.Context, clientID string, latestScore int, lastTestDate time.Time) error
	// SetClientStats реализует путь полного пересчёта: nil-указатели сбрасывают
	// latest_score/last_test_date в NULL.
	SetClientStats(ctx context.Context, clientID string, totalTests int, latestScore *int, lastTestDate *time.Time) error

	Close() error
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository() (*PostgresRepository, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Client{}, &TestResult{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) CreateClient(ctx context.Context, client *Client) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *PostgresRepository) ListClients(ctx context.Context) ([]Client, error) {
	var clients []Client
	if err := r.db.WithContext(ctx).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *PostgresRepository) GetClientByID(ctx context.Context, id string) (*Client, error) {
	var client Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *PostgresRepository) UpdateClientFields(ctx context.Context, id string, fields map[string]interface{}) (*Client, error) {
	res := r.db.WithContext(ctx).Model(&Client{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetClientByID(ctx, id)
}

func (r *PostgresRepository) DeleteClientCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client Client
		if err := tx.First(&client, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&TestResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&client).Error
	})
}

func (r *PostgresRepository) CreateTestResult(ctx context.Context, result *TestResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.TestDate.IsZero() {
		result.TestDate = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *PostgresRepository) GetTestResultByID(ctx context.Context, id string) (*TestResult, error) {
	var result TestResult
	if err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *PostgresRepository) ListTestResultsByClient(ctx context.Context, clientID string) ([]TestResult, error) {
	var results []TestResult
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *PostgresRepository) DeleteTestResult(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&TestResult{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) IncrementClientStats(ctx context.Context, clientID string, latestScore int, lastTestDate time.Time) error {
	res := r.db.WithContext(ctx).Model(&Client{}).Where("id = ?", clientID).Updates(map[string]interface{}{
		"total_tests":    gorm.Expr("total_tests + 1"),
		"latest_score":   latestScore,
		"last_test_date": lastTestDate,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetClientStats(ctx context.Context, clientID string, totalTests int, latestScore *int, lastTestDate *time.Time) error {
	res := r.db.WithContext(ctx).Model(&Client{}).Where("id = ?", clientID).Updates(map[string]interface{}{
		"total_tests":    totalTests,
		"latest_score":   latestScore,
		"last_test_date": lastTestDate,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
