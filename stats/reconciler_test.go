package stats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Stephan2025u/FMS-NEW/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, repo *models.MemoryRepository) *models.Client {
	t.Helper()
	client := &models.Client{Name: "Anna", Email: "anna@example.com"}
	require.NoError(t, repo.CreateClient(context.Background(), client))
	return client
}

func newResult(clientID string, totalScore int, testDate time.Time) *models.TestResult {
	return &models.TestResult{
		ClientID:   clientID,
		Scores:     models.ScoreMap{"deepSquat": {Score: 2}},
		TotalScore: totalScore,
		TestDate:   testDate,
	}
}

func TestApplyResultIncrementsStats(t *testing.T) {
	repo := models.NewMemoryRepository()
	r := NewReconciler(repo)
	ctx := context.Background()
	client := newTestClient(t, repo)

	result := newResult(client.ID, 14, time.Now().UTC())
	require.NoError(t, repo.CreateTestResult(ctx, result))
	require.NoError(t, r.ApplyResult(ctx, result))

	got, err := repo.GetClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalTests)
	require.NotNil(t, got.LatestScore)
	assert.Equal(t, 14, *got.LatestScore)
	require.NotNil(t, got.LastTestDate)
	assert.True(t, got.LastTestDate.Equal(result.TestDate))
}

func TestApplyResultMissingClient(t *testing.T) {
	repo := models.NewMemoryRepository()
	r := NewReconciler(repo)

	result := newResult("missing-id", 10, time.Now().UTC())
	err := r.ApplyResult(context.Background(), result)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRecalculateResetsWhenNoResults(t *testing.T) {
	repo := models.NewMemoryRepository()
	r := NewReconciler(repo)
	ctx := context.Background()
	client := newTestClient(t, repo)

	result := newResult(client.ID, 12, time.Now().UTC())
	require.NoError(t, repo.CreateTestResult(ctx, result))
	require.NoError(t, r.ApplyResult(ctx, result))
	require.NoError(t, repo.DeleteTestResult(ctx, result.ID))

	require.NoError(t, r.Recalculate(ctx, client.ID))

	got, err := repo.GetClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalTests)
	assert.Nil(t, got.LatestScore)
	assert.Nil(t, got.LastTestDate)
}

func TestRecalculatePicksMostRecentResult(t *testing.T) {
	repo := models.NewMemoryRepository()
	r := NewReconciler(repo)
	ctx := context.Background()
	client := newTestClient(t, repo)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, score := range []int{10, 16, 12} {
		result := newResult(client.ID, score, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.CreateTestResult(ctx, result))
	}

	require.NoError(t, r.Recalculate(ctx, client.ID))

	got, err := repo.GetClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalTests)
	// Побеждает результат с максимальной test_date, не с максимальным баллом
	require.NotNil(t, got.LatestScore)
	assert.Equal(t, 12, *got.LatestScore)
	require.NotNil(t, got.LastTestDate)
	assert.True(t, got.LastTestDate.Equal(base.Add(2*time.Hour)))
}

func TestRecalculateTieBreaksByGreaterID(t *testing.T) {
	repo := models.NewMemoryRepository()
	r := NewReconciler(repo)
	ctx := context.Background()
	client := newTestClient(t, repo)

	sameDate := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	first := newResult(client.ID, 9, sameDate)
	first.ID = "aaaa"
	require.NoError(t, repo.CreateTestResult(ctx, first))

	second := newResult(client.ID, 17, sameDate)
	second.ID = "bbbb"
	require.NoError(t, repo.CreateTestResult(ctx, second))

	require.NoError(t, r.Recalculate(ctx, client.ID))

	got, err := repo.GetClientByID(ctx, client.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LatestScore)
	assert.Equal(t, 17, *got.LatestScore)
}

// Счётчик total_tests следует за набором результатов при любой
// последовательности создания/удаления.
func TestStatsTrackResultSet(t *testing.T) {
	repo := models.NewMemoryRepository()
	r := NewReconciler(repo)
	ctx := context.Background()
	client := newTestClient(t, repo)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 5; i++ {
		result := newResult(client.ID, 10+i, base.Add(time.Duration(i)*time.Minute))
		result.ID = fmt.Sprintf("result-%d", i)
		require.NoError(t, repo.CreateTestResult(ctx, result))
		require.NoError(t, r.ApplyResult(ctx, result))
		ids = append(ids, result.ID)
	}

	got, err := repo.GetClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.TotalTests)
	require.NotNil(t, got.LatestScore)
	assert.Equal(t, 14, *got.LatestScore)

	// Удаляем вразнобой: сначала середину, потом самый свежий
	for _, id := range []string{ids[2], ids[4]} {
		require.NoError(t, repo.DeleteTestResult(ctx, id))
		require.NoError(t, r.Recalculate(ctx, client.ID))
	}

	got, err = repo.GetClientByID(ctx, client.ID)
	require.NoError(t, err)

	remaining, err := repo.ListTestResultsByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, len(remaining), got.TotalTests)
	require.NotNil(t, got.LatestScore)
	assert.Equal(t, 13, *got.LatestScore)
	require.NotNil(t, got.LastTestDate)
	assert.True(t, got.LastTestDate.Equal(base.Add(3*time.Minute)))
}
