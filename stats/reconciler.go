package stats

import (
	"context"

	"github.com/Stephan2025u/FMS-NEW/models"
)

// Reconciler поддерживает согласованность производных полей клиента
// (total_tests, latest_score, last_test_date) с набором его
// результатов тестов.
type Reconciler struct {
	repo models.Repository
}

func NewReconciler(repo models.Repository) *Reconciler {
	return &Reconciler{repo: repo}
}

// ApplyResult применяет путь инкремента после создания результата. Новый
// результат всегда несёт самую позднюю test_date (она выдаётся в момент
// создания), поэтому достаточно одного атомарного обновления O(1).
func (r *Reconciler) ApplyResult(ctx context.Context, result *models.TestResult) error {
	return r.repo.IncrementClientStats(ctx, result.ClientID, result.TotalScore, result.TestDate)
}

// Recalculate выполняет полный пересчёт после удаления результата. Удаление
// могло затронуть самый свежий результат, так что статистика заново
// выводится из оставшегося набора: O(количество результатов клиента).
func (r *Reconciler) Recalculate(ctx context.Context, clientID string) error {
	results, err := r.repo.ListTestResultsByClient(ctx, clientID)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		return r.repo.SetClientStats(ctx, clientID, 0, nil, nil)
	}

	latest := results[0]
	for _, result := range results[1:] {
		if result.TestDate.After(latest.TestDate) {
			latest = result
			continue
		}
		// При совпадении test_date детерминированно побеждает больший id.
		if result.TestDate.Equal(latest.TestDate) && result.ID > latest.ID {
			latest = result
		}
	}

	score := latest.TotalScore
	date := latest.TestDate
	return r.repo.SetClientStats(ctx, clientID, len(results), &score, &date)
}
