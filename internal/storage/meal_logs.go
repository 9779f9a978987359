package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
)

// GetMealLog returns the user's log for a calendar day.
func (s *SQLiteStorage) GetMealLog(ctx context.Context, userID string, date time.Time) (*model.DailyMealLog, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	day := model.FormatDay(date)
	log := &model.DailyMealLog{UserID: userID, Date: model.Day(date)}
	var breakfast, lunch, dinner string

	err := s.db.QueryRowContext(ctx, `
		SELECT meal_plan_id, breakfast, lunch, dinner, extra_calories, extra_description
		FROM meal_logs
		WHERE user_id = ? AND date = ?
	`, userID, day).Scan(&log.MealPlanID, &breakfast, &lunch, &dinner, &log.ExtraCalories, &log.ExtraDescription)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("meal log %s/%s: %w", userID, day, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal log: %w", err)
	}

	for slot, raw := range map[model.MealSlot]string{model.Breakfast: breakfast, model.Lunch: lunch, model.Dinner: dinner} {
		state, err := model.ParseSlotState(raw)
		if err != nil {
			return nil, fmt.Errorf("meal log %s/%s: %w", userID, day, err)
		}
		if err := log.SetSlot(slot, state); err != nil {
			return nil, err
		}
	}

	photos, err := getPhotos(ctx, s.db, userID, day)
	if err != nil {
		return nil, err
	}
	log.Photos = photos
	return log, nil
}

func getPhotos(ctx context.Context, q queryable, userID, day string) ([]model.FoodPhoto, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT url, description, estimated_calories, taken_at
		FROM meal_log_photos
		WHERE user_id = ? AND date = ?
		ORDER BY position
	`, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var photos []model.FoodPhoto
	for rows.Next() {
		var (
			p        model.FoodPhoto
			calories sql.NullInt64
			takenAt  sql.NullTime
		)
		if err := rows.Scan(&p.URL, &p.Description, &calories, &takenAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		p.EstimatedCalories = intPtr(calories)
		if takenAt.Valid {
			p.TakenAt = takenAt.Time
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}
	return photos, nil
}

// UpsertMealLog writes the whole log record for (user, date), replacing its photos.
func (s *SQLiteStorage) UpsertMealLog(ctx context.Context, log *model.DailyMealLog) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMealLog(log); err != nil {
		return err
	}

	day := model.FormatDay(log.Date)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO meal_logs (user_id, date, meal_plan_id, breakfast, lunch, dinner, extra_calories, extra_description, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(user_id, date) DO UPDATE SET
				meal_plan_id = excluded.meal_plan_id,
				breakfast = excluded.breakfast,
				lunch = excluded.lunch,
				dinner = excluded.dinner,
				extra_calories = excluded.extra_calories,
				extra_description = excluded.extra_description,
				updated_at = CURRENT_TIMESTAMP
		`, log.UserID, day, log.MealPlanID, string(log.Breakfast), string(log.Lunch), string(log.Dinner),
			log.ExtraCalories, log.ExtraDescription)
		if err != nil {
			return fmt.Errorf("failed to save meal log: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM meal_log_photos WHERE user_id = ? AND date = ?`, log.UserID, day); err != nil {
			return fmt.Errorf("failed to clear photos: %w", err)
		}
		for i, p := range log.Photos {
			var takenAt sql.NullTime
			if !p.TakenAt.IsZero() {
				takenAt = sql.NullTime{Time: p.TakenAt.UTC(), Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO meal_log_photos (user_id, date, position, url, description, estimated_calories, taken_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, log.UserID, day, i, p.URL, p.Description, nullInt(p.EstimatedCalories), takenAt); err != nil {
				return fmt.Errorf("failed to save photo: %w", err)
			}
		}
		return nil
	})
}

// DeleteMealLogsByPlan removes the user's logs recorded against a meal plan and
// returns how many days were removed.
func (s *SQLiteStorage) DeleteMealLogsByPlan(ctx context.Context, userID, mealPlanID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}
	if err := validateString(mealPlanID, "mealPlanID"); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM meal_log_photos
			WHERE user_id = ? AND date IN (
				SELECT date FROM meal_logs WHERE user_id = ? AND meal_plan_id = ?
			)
		`, userID, userID, mealPlanID); err != nil {
			return fmt.Errorf("failed to delete photos: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM meal_logs WHERE user_id = ? AND meal_plan_id = ?`, userID, mealPlanID)
		if err != nil {
			return fmt.Errorf("failed to delete meal logs: %w", err)
		}
		deleted, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}
