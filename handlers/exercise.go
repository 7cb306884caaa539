package handlers

import (
	"net/http"

	"github.com/Stephan2025u/FMS-NEW/models"
	"github.com/gin-gonic/gin"
)

// ExerciseHandler отдаёт статический каталог FMS-упражнений.
type ExerciseHandler struct{}

func NewExerciseHandler() *ExerciseHandler {
	return &ExerciseHandler{}
}

func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	c.JSON(http.StatusOK, models.FMSExercises())
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id := c.Param("id")
	exercise, ok := models.FMSExerciseByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "exercise not found"})
		return
	}
	c.JSON(http.StatusOK, exercise)
}
