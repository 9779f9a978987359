package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/larder/internal/model"
)

// SaveStaples upserts staples. Their order in the slice becomes the display order.
func (s *SQLiteStorage) SaveStaples(ctx context.Context, staples []model.PantryStaple) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i, staple := range staples {
		if err := validateStaple(staple); err != nil {
			return fmt.Errorf("staple at index %d: %w", i, err)
		}
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for i, st := range staples {
			category := st.Category
			if category == "" {
				category = model.CategoryOther
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO pantry_staples (id, name, category, icon, sort_order)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					category = excluded.category,
					icon = excluded.icon,
					sort_order = excluded.sort_order
			`, st.ID, st.Name, string(category), st.Icon, i)
			if err != nil {
				return fmt.Errorf("failed to save staple %s: %w", st.ID, err)
			}
		}
		return nil
	})
}

// FetchStaples returns every staple in display order.
func (s *SQLiteStorage) FetchStaples(ctx context.Context) ([]model.PantryStaple, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, icon
		FROM pantry_staples
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	staples := []model.PantryStaple{}
	for rows.Next() {
		var (
			st       model.PantryStaple
			category string
		)
		if err := rows.Scan(&st.ID, &st.Name, &category, &st.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan staple: %w", err)
		}
		st.Category, err = model.ParseStapleCategory(category)
		if err != nil {
			st.Category = model.CategoryOther
		}
		staples = append(staples, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staples: %w", err)
	}
	return staples, nil
}

// DeleteStaple removes one staple.
func (s *SQLiteStorage) DeleteStaple(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM pantry_staples WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staple: %w", err)
	}
	return requireAffected(result, "staple "+id)
}
