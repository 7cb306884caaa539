package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/Stephan2025u/FMS-NEW/models"
	"github.com/Stephan2025u/FMS-NEW/monitoring"
	"github.com/Stephan2025u/FMS-NEW/stats"
	"github.com/Stephan2025u/FMS-NEW/utils"
	"github.com/gin-gonic/gin"
)

type TestResultHandler struct {
	repo       models.Repository
	reconciler *stats.Reconciler
	cache      utils.RedisClient
	kafka      utils.KafkaProducer
}

func NewTestResultHandler(repo models.Repository, reconciler *stats.Reconciler, cache utils.RedisClient, kafka utils.KafkaProducer) *TestResultHandler {
	return &TestResultHandler{
		repo:       repo,
		reconciler: reconciler,
		cache:      cache,
		kafka:      kafka,
	}
}

type ExerciseScoreRequest struct {
	Score *int   `json:"score" binding:"required,gte=0,lte=3"`
	Pain  bool   `json:"pain"`
	Notes string `json:"notes"`
}

type TestResultCreateRequest struct {
	ClientID      string                          `json:"client_id" binding:"required"`
	Scores        map[string]ExerciseScoreRequest `json:"scores" binding:"required,dive"`
	AssessorNotes string                          `json:"assessor_notes"`
}

func (h *TestResultHandler) CreateTestResult(c *gin.Context) {
	var req TestResultCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Ссылочная целостность: результат без существующего клиента не
	// принимается.
	if _, err := h.repo.GetClientByID(c.Request.Context(), req.ClientID); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	scores := make(models.ScoreMap, len(req.Scores))
	for exerciseID, s := range req.Scores {
		scores[exerciseID] = models.ExerciseScore{
			Score: *s.Score,
			Pain:  s.Pain,
			Notes: s.Notes,
		}
	}

	result := &models.TestResult{
		ClientID:      req.ClientID,
		Scores:        scores,
		TotalScore:    scores.Total(),
		AssessorNotes: req.AssessorNotes,
	}

	if err := h.repo.CreateTestResult(c.Request.Context(), result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	monitoring.TestResultsCreated.Inc()

	// Мягкий сбой: запись уже сохранена, ошибка сверки не роняет запрос.
	if err := h.reconciler.ApplyResult(c.Request.Context(), result); err != nil {
		h.reportReconcileFailure("increment", result.ClientID, err)
	}

	h.invalidateClientCache(c.Request.Context(), result.ClientID)
	go publishEvent(h.kafka, "test_result_created", result)

	c.JSON(http.StatusCreated, result)
}

func (h *TestResultHandler) ListClientResults(c *gin.Context) {
	clientID := c.Param("client_id")

	results, err := h.repo.ListTestResultsByClient(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if results == nil {
		results = []models.TestResult{}
	}
	c.JSON(http.StatusOK, results)
}

func (h *TestResultHandler) GetTestResult(c *gin.Context) {
	id := c.Param("id")

	result, err := h.repo.GetTestResultByID(c.Request.Context(), id)
	if err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "test result not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TestResultHandler) DeleteTestResult(c *gin.Context) {
	id := c.Param("id")

	result, err := h.repo.GetTestResultByID(c.Request.Context(), id)
	if err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "test result not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.DeleteTestResult(c.Request.Context(), id); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "test result not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Удаление могло снять самый свежий результат, нужен полный пересчёт.
	if err := h.reconciler.Recalculate(c.Request.Context(), result.ClientID); err != nil {
		h.reportReconcileFailure("recalculate", result.ClientID, err)
	}

	h.invalidateClientCache(c.Request.Context(), result.ClientID)
	go publishEvent(h.kafka, "test_result_deleted", map[string]interface{}{
		"id":        id,
		"client_id": result.ClientID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Test result deleted successfully"})
}

func (h *TestResultHandler) reportReconcileFailure(op, clientID string, err error) {
	log.Printf("Stats reconciliation (%s) failed for client %s: %v", op, clientID, err)
	monitoring.StatsReconcileFailures.Inc()
	utils.CaptureError(err, map[string]interface{}{
		"operation": op,
		"client_id": clientID,
	})
}

func (h *TestResultHandler) invalidateClientCache(ctx context.Context, id string) {
	if h.cache == nil {
		return
	}
	// Производные поля клиента изменились, кэшированный профиль устарел.
	if err := h.cache.DeleteFromCache(ctx, utils.ClientCacheKey(id)); err != nil {
		log.Printf("Failed to invalidate cache for client %s: %v", id, err)
	}
}
