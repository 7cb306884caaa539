package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/Stephan2025u/FMS-NEW/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTestResultComputesTotal(t *testing.T) {
	router, _ := setupRouter(t)
	client := createClient(t, router, "Sarah Johnson", "sarah.johnson@email.com")

	result := createTestResult(t, router, client.ID, map[string]int{
		"deepSquat":            2,
		"hurdleStep":           2,
		"inLineLunge":          2,
		"shoulderMobility":     2,
		"activeStraightLeg":    2,
		"trunkStabilityPushup": 2,
		"rotaryStability":      2,
	})

	assert.Equal(t, 14, result.TotalScore)
	assert.Equal(t, client.ID, result.ClientID)
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.TestDate.IsZero())

	// Статистика клиента обновлена путём инкремента
	updated := fetchClient(t, router, client.ID)
	assert.Equal(t, 1, updated.TotalTests)
	require.NotNil(t, updated.LatestScore)
	assert.Equal(t, 14, *updated.LatestScore)
	require.NotNil(t, updated.LastTestDate)
	assert.True(t, updated.LastTestDate.Equal(result.TestDate))

	// После удаления единственного результата статистика сбрасывается
	w := doRequest(t, router, http.MethodDelete, "/api/v1/test-results/"+result.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	reset := fetchClient(t, router, client.ID)
	assert.Equal(t, 0, reset.TotalTests)
	assert.Nil(t, reset.LatestScore)
	assert.Nil(t, reset.LastTestDate)
}

func TestCreateTestResultScoreOutOfRange(t *testing.T) {
	router, _ := setupRouter(t)
	client := createClient(t, router, "Anna", "anna@example.com")

	for _, score := range []int{-1, 4} {
		w := doRequest(t, router, http.MethodPost, "/api/v1/test-results", gin.H{
			"client_id": client.ID,
			"scores":    gin.H{"deepSquat": gin.H{"score": score}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	// Ничего не записалось и статистика не тронута
	w := doRequest(t, router, http.MethodGet, "/api/v1/test-results/client/"+client.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	unchanged := fetchClient(t, router, client.ID)
	assert.Equal(t, 0, unchanged.TotalTests)
	assert.Nil(t, unchanged.LatestScore)
}

func TestCreateTestResultMissingScore(t *testing.T) {
	router, _ := setupRouter(t)
	client := createClient(t, router, "Anna", "anna@example.com")

	w := doRequest(t, router, http.MethodPost, "/api/v1/test-results", gin.H{
		"client_id": client.ID,
		"scores":    gin.H{"deepSquat": gin.H{"pain": true}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTestResultUnknownClient(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/test-results", gin.H{
		"client_id": "missing-id",
		"scores":    gin.H{"deepSquat": gin.H{"score": 2}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "client does not exist")
}

func TestCreateTestResultKeepsPainAndNotes(t *testing.T) {
	router, _ := setupRouter(t)
	client := createClient(t, router, "Anna", "anna@example.com")

	w := doRequest(t, router, http.MethodPost, "/api/v1/test-results", gin.H{
		"client_id": client.ID,
		"scores": gin.H{
			"deepSquat": gin.H{"score": 0, "pain": true, "notes": "knee pain"},
		},
		"assessor_notes": "refer to physio",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decodeJSON[models.TestResult](t, w)

	assert.Equal(t, 0, result.TotalScore)
	assert.Equal(t, "refer to physio", result.AssessorNotes)
	require.Contains(t, result.Scores, "deepSquat")
	assert.True(t, result.Scores["deepSquat"].Pain)
	assert.Equal(t, "knee pain", result.Scores["deepSquat"].Notes)
}

func TestLatestScoreRecomputedOnDelete(t *testing.T) {
	router, _ := setupRouter(t)
	client := createClient(t, router, "Anna", "anna@example.com")

	first := createTestResult(t, router, client.ID, map[string]int{
		"deepSquat": 3, "hurdleStep": 3, "inLineLunge": 3, "shoulderMobility": 1,
	})
	require.Equal(t, 10, first.TotalScore)

	// Гарантируем более позднюю test_date второго результата
	time.Sleep(10 * time.Millisecond)

	second := createTestResult(t, router, client.ID, map[string]int{
		"deepSquat": 3, "hurdleStep": 3, "inLineLunge": 3, "shoulderMobility": 3,
		"activeStraightLeg": 2, "trunkStabilityPushup": 2,
	})
	require.Equal(t, 16, second.TotalScore)

	afterSecond := fetchClient(t, router, client.ID)
	assert.Equal(t, 2, afterSecond.TotalTests)
	require.NotNil(t, afterSecond.LatestScore)
	assert.Equal(t, 16, *afterSecond.LatestScore)

	// Удаляем самый свежий, статистика пересчитывается по остатку
	w := doRequest(t, router, http.MethodDelete, "/api/v1/test-results/"+second.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	afterDelete := fetchClient(t, router, client.ID)
	assert.Equal(t, 1, afterDelete.TotalTests)
	require.NotNil(t, afterDelete.LatestScore)
	assert.Equal(t, 10, *afterDelete.LatestScore)
	require.NotNil(t, afterDelete.LastTestDate)
	assert.True(t, afterDelete.LastTestDate.Equal(first.TestDate))
}

func TestListClientResults(t *testing.T) {
	router, _ := setupRouter(t)
	client := createClient(t, router, "Anna", "anna@example.com")

	createTestResult(t, router, client.ID, map[string]int{"deepSquat": 1})
	createTestResult(t, router, client.ID, map[string]int{"deepSquat": 2})

	w := doRequest(t, router, http.MethodGet, "/api/v1/test-results/client/"+client.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := decodeJSON[[]models.TestResult](t, w)
	assert.Len(t, results, 2)
}

func TestGetTestResultNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/test-results/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTestResultNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(t, router, http.MethodDelete, "/api/v1/test-results/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
