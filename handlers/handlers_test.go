package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Stephan2025u/FMS-NEW/models"
	"github.com/Stephan2025u/FMS-NEW/stats"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Тестовый роутер поверх in-memory хранилища, без Kafka/Redis/ES.
func setupRouter(t *testing.T) (*gin.Engine, *models.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := models.NewMemoryRepository()
	reconciler := stats.NewReconciler(repo)
	clientHandler := NewClientHandler(repo, nil, nil, nil)
	testResultHandler := NewTestResultHandler(repo, reconciler, nil, nil)
	exerciseHandler := NewExerciseHandler()

	router := gin.New()
	api := router.Group("/api/v1")
	{
		api.GET("/fms-exercises", exerciseHandler.ListExercises)
		api.GET("/fms-exercises/:id", exerciseHandler.GetExercise)

		api.POST("/clients", clientHandler.CreateClient)
		api.GET("/clients", clientHandler.ListClients)
		api.GET("/clients/search", clientHandler.SearchClients)
		api.GET("/clients/:id", clientHandler.GetClient)
		api.PUT("/clients/:id", clientHandler.UpdateClient)
		api.DELETE("/clients/:id", clientHandler.DeleteClient)

		api.POST("/test-results", testResultHandler.CreateTestResult)
		api.GET("/test-results/client/:client_id", testResultHandler.ListClientResults)
		api.GET("/test-results/:id", testResultHandler.GetTestResult)
		api.DELETE("/test-results/:id", testResultHandler.DeleteTestResult)
	}

	return router, repo
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createClient(t *testing.T, router *gin.Engine, name, email string) models.Client {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/v1/clients", gin.H{
		"name":  name,
		"email": email,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeJSON[models.Client](t, w)
}

// createTestResult отправляет результат, где каждый балл берётся из values.
func createTestResult(t *testing.T, router *gin.Engine, clientID string, values map[string]int) models.TestResult {
	t.Helper()
	scores := gin.H{}
	for exerciseID, score := range values {
		scores[exerciseID] = gin.H{"score": score}
	}
	w := doRequest(t, router, http.MethodPost, "/api/v1/test-results", gin.H{
		"client_id": clientID,
		"scores":    scores,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeJSON[models.TestResult](t, w)
}

func fetchClient(t *testing.T, router *gin.Engine, id string) models.Client {
	t.Helper()
	w := doRequest(t, router, http.MethodGet, "/api/v1/clients/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeJSON[models.Client](t, w)
}
