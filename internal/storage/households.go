package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
)

// GetHousehold returns a household with its preferred chains in preference order.
func (s *SQLiteStorage) GetHousehold(ctx context.Context, id string) (*model.Household, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	household := &model.Household{ID: id, PreferredChains: []string{}}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM households WHERE id = ?`, id).Scan(&household.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("household %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT chain_id FROM household_chains
		WHERE household_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query household chains: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var chainID string
		if err := rows.Scan(&chainID); err != nil {
			return nil, fmt.Errorf("failed to scan household chain: %w", err)
		}
		household.PreferredChains = append(household.PreferredChains, chainID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate household chains: %w", err)
	}
	return household, nil
}

// SaveHousehold creates or replaces a household and its chain preferences.
func (s *SQLiteStorage) SaveHousehold(ctx context.Context, household *model.Household) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateHousehold(household); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO households (id, name, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = CURRENT_TIMESTAMP
		`, household.ID, household.Name)
		if err != nil {
			return fmt.Errorf("failed to save household: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM household_chains WHERE household_id = ?`, household.ID); err != nil {
			return fmt.Errorf("failed to clear household chains: %w", err)
		}

		seen := make(map[string]struct{}, len(household.PreferredChains))
		position := 0
		for _, chainID := range household.PreferredChains {
			if _, dup := seen[chainID]; dup || chainID == "" {
				continue
			}
			seen[chainID] = struct{}{}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO household_chains (household_id, chain_id, position) VALUES (?, ?, ?)
			`, household.ID, chainID, position); err != nil {
				return fmt.Errorf("failed to save household chain %s: %w", chainID, err)
			}
			position++
		}
		return nil
	})
}

// ListHouseholds returns every household ordered by ID, with chain preferences.
func (s *SQLiteStorage) ListHouseholds(ctx context.Context) ([]model.Household, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM households ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query households: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan household: %w", err)
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate households: %w", err)
	}

	// The single connection must be released before loading each household.
	households := make([]model.Household, 0, len(ids))
	for _, id := range ids {
		h, err := s.GetHousehold(ctx, id)
		if err != nil {
			return nil, err
		}
		households = append(households, *h)
	}
	return households, nil
}

// requireAffected turns a zero-row write into common.ErrNotFound.
func requireAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return nil
}
