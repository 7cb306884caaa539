package models

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository реализует потокобезопасное in-memory хранилище. Используется
// в тестах и в dev-режиме, когда DB_HOST не задан.
type MemoryRepository struct {
	mu          sync.RWMutex
	clients     map[string]Client
	clientOrder []string
	results     map[string]TestResult
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		clients: make(map[string]Client),
		results: make(map[string]TestResult),
	}
}

func (r *MemoryRepository) CreateClient(_ context.Context, client *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}
	r.clients[client.ID] = *client
	r.clientOrder = append(r.clientOrder, client.ID)
	return nil
}

func (r *MemoryRepository) ListClients(_ context.Context) ([]Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]Client, 0, len(r.clientOrder))
	for _, id := range r.clientOrder {
		clients = append(clients, r.clients[id])
	}
	return clients, nil
}

func (r *MemoryRepository) GetClientByID(_ context.Context, id string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &client, nil
}

func (r *MemoryRepository) UpdateClientFields(_ context.Context, id string, fields map[string]interface{}) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	for column, value := range fields {
		s, _ := value.(string)
		switch column {
		case "name":
			client.Name = s
		case "email":
			client.Email = s
		case "phone":
			client.Phone = s
		case "date_of_birth":
			client.DateOfBirth = s
		case "occupation":
			client.Occupation = s
		}
	}
	r.clients[id] = client
	return &client, nil
}

func (r *MemoryRepository) DeleteClientCascade(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; !ok {
		return ErrNotFound
	}
	for resultID, result := range r.results {
		if result.ClientID == id {
			delete(r.results, resultID)
		}
	}
	delete(r.clients, id)
	for i, clientID := range r.clientOrder {
		if clientID == id {
			r.clientOrder = append(r.clientOrder[:i], r.clientOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) CreateTestResult(_ context.Context, result *TestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.TestDate.IsZero() {
		result.TestDate = time.Now().UTC()
	}
	r.results[result.ID] = *result
	return nil
}

func (r *MemoryRepository) GetTestResultByID(_ context.Context, id string) (*TestResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &result, nil
}

func (r *MemoryRepository) ListTestResultsByClient(_ context.Context, clientID string) ([]TestResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []TestResult
	for _, result := range r.results {
		if result.ClientID == clientID {
			results = append(results, result)
		}
	}
	return results, nil
}

func (r *MemoryRepository) DeleteTestResult(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.results[id]; !ok {
		return ErrNotFound
	}
	delete(r.results, id)
	return nil
}

func (r *MemoryRepository) IncrementClientStats(_ context.Context, clientID string, latestScore int, lastTestDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[clientID]
	if !ok {
		return ErrNotFound
	}
	client.TotalTests++
	client.LatestScore = &latestScore
	client.LastTestDate = &lastTestDate
	r.clients[clientID] = client
	return nil
}

func (r *MemoryRepository) SetClientStats(_ context.Context, clientID string, totalTests int, latestScore *int, lastTestDate *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[clientID]
	if !ok {
		return ErrNotFound
	}
	client.TotalTests = totalTests
	client.LatestScore = latestScore
	client.LastTestDate = lastTestDate
	r.clients[clientID] = client
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
