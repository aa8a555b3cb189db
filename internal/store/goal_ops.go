package store

import (
	"database/sql"
	"errors"
	"log"

	"mastercrm/internal/apperr"
	"mastercrm/internal/models"
)

// goalRowID — цели хранятся единственной строкой с фиксированным id.
const goalRowID = 1

// GetGoal возвращает целевые показатели. Если строка еще не создана,
// отдаются нули.
func (s *Store) GetGoal() (models.Goal, error) {
	goal := models.Goal{ID: goalRowID}
	err := s.db.QueryRow(
		`SELECT all_target, month_target, day_target FROM goals WHERE id = $1`, goalRowID,
	).Scan(&goal.All, &goal.Month, &goal.Day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return goal, nil
		}
		log.Printf("GetGoal: ошибка выборки целей: %v", err)
		return models.Goal{}, apperr.Store("GetGoal", err)
	}
	return goal, nil
}

// UpsertGoal обновляет целевые показатели. Всегда одна строка: вставка
// с ON CONFLICT, вторая строка появиться не может.
func (s *Store) UpsertGoal(goal models.Goal) (models.Goal, error) {
	if goal.All < 0 || goal.Month < 0 || goal.Day < 0 {
		return models.Goal{}, apperr.Validation("целевые показатели не могут быть отрицательными")
	}
	goal.ID = goalRowID

	_, err := s.db.Exec(
		`INSERT INTO goals (id, all_target, month_target, day_target)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (id) DO UPDATE
         SET all_target = EXCLUDED.all_target,
             month_target = EXCLUDED.month_target,
             day_target = EXCLUDED.day_target`,
		goalRowID, goal.All, goal.Month, goal.Day,
	)
	if err != nil {
		log.Printf("UpsertGoal: ошибка сохранения целей: %v", err)
		return models.Goal{}, apperr.Store("UpsertGoal", err)
	}
	return goal, nil
}
