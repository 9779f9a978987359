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

const listColumns = `id, household_id, meal_plan_id, total_price, completed, created_at, updated_at`

// GetShoppingList returns one list of a household with its items.
func (s *SQLiteStorage) GetShoppingList(ctx context.Context, householdID, listID string) (*model.ShoppingList, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(householdID, "householdID"); err != nil {
		return nil, err
	}
	if err := validateString(listID, "listID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+listColumns+`
		FROM shopping_lists
		WHERE id = ? AND household_id = ?
	`, listID, householdID)
	return s.loadList(ctx, row)
}

// GetActiveShoppingList returns the household's most recently updated uncompleted list.
func (s *SQLiteStorage) GetActiveShoppingList(ctx context.Context, householdID string) (*model.ShoppingList, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(householdID, "householdID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+listColumns+`
		FROM shopping_lists
		WHERE household_id = ? AND completed = 0
		ORDER BY updated_at DESC, created_at DESC
		LIMIT 1
	`, householdID)
	return s.loadList(ctx, row)
}

// ListShoppingLists returns the household's lists with their items, newest first.
// A non-positive limit returns every list.
func (s *SQLiteStorage) ListShoppingLists(ctx context.Context, householdID string, limit int) ([]model.ShoppingList, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(householdID, "householdID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	lists, err := s.scanLists(ctx, householdID, limit)
	if err != nil {
		return nil, err
	}

	// Items are loaded after the header rows are closed; the pool holds a single connection.
	for i := range lists {
		items, err := getItemsTx(ctx, s.db, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}
	return lists, nil
}

func (s *SQLiteStorage) scanLists(ctx context.Context, householdID string, limit int) ([]model.ShoppingList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+listColumns+`
		FROM shopping_lists
		WHERE household_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, householdID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping lists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	lists := []model.ShoppingList{}
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping lists: %w", err)
	}
	return lists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(row rowScanner) (*model.ShoppingList, error) {
	var list model.ShoppingList
	err := row.Scan(&list.ID, &list.HouseholdID, &list.MealPlanID, &list.TotalPrice, &list.Completed,
		&list.CreatedAt, &list.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shopping list: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan shopping list: %w", err)
	}
	return &list, nil
}

func (s *SQLiteStorage) loadList(ctx context.Context, row *sql.Row) (*model.ShoppingList, error) {
	list, err := scanList(row)
	if err != nil {
		return nil, err
	}

	items, err := getItemsTx(ctx, s.db, list.ID)
	if err != nil {
		return nil, err
	}
	list.Items = items
	return list, nil
}

func getItemsTx(ctx context.Context, q queryable, listID string) ([]model.ShoppingListItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, amount, unit, price, offer_price, offer_id, store, source, is_estimate, checked
		FROM shopping_list_items
		WHERE list_id = ?
		ORDER BY position
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []model.ShoppingListItem{}
	for rows.Next() {
		var (
			item              model.ShoppingListItem
			price, offerPrice sql.NullFloat64
			source            string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Amount, &item.Unit, &price, &offerPrice,
			&item.OfferID, &item.Store, &source, &item.IsEstimate, &item.Checked); err != nil {
			return nil, fmt.Errorf("failed to scan list item: %w", err)
		}
		item.Price = floatPtr(price)
		item.OfferPrice = floatPtr(offerPrice)
		item.Source = model.ItemSource(source)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list items: %w", err)
	}
	return items, nil
}

// UpsertShoppingList writes the whole list record, replacing its items.
func (s *SQLiteStorage) UpsertShoppingList(ctx context.Context, list *model.ShoppingList) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateShoppingList(list); err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt, updatedAt := list.CreatedAt, list.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO shopping_lists (id, household_id, meal_plan_id, total_price, completed, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				meal_plan_id = excluded.meal_plan_id,
				total_price = excluded.total_price,
				completed = excluded.completed,
				updated_at = excluded.updated_at
		`, list.ID, list.HouseholdID, list.MealPlanID, list.TotalPrice, list.Completed, createdAt, updatedAt)
		if err != nil {
			return fmt.Errorf("failed to save shopping list: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE list_id = ?`, list.ID); err != nil {
			return fmt.Errorf("failed to clear list items: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO shopping_list_items
				(list_id, id, position, name, amount, unit, price, offer_price, offer_id, store, source, is_estimate, checked)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare item statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, item := range list.Items {
			if _, err := stmt.ExecContext(ctx, list.ID, item.ID, i, item.Name, item.Amount, item.Unit,
				nullFloat(item.Price), nullFloat(item.OfferPrice), item.OfferID, item.Store, string(item.Source),
				item.IsEstimate, item.Checked); err != nil {
				return fmt.Errorf("failed to save list item %s: %w", item.ID, err)
			}
		}
		return nil
	})
}

// DeleteShoppingList removes a list and its items.
func (s *SQLiteStorage) DeleteShoppingList(ctx context.Context, householdID, listID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(householdID, "householdID"); err != nil {
		return err
	}
	if err := validateString(listID, "listID"); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE list_id = ?`, listID); err != nil {
			return fmt.Errorf("failed to delete list items: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = ? AND household_id = ?`, listID, householdID)
		if err != nil {
			return fmt.Errorf("failed to delete shopping list: %w", err)
		}
		return requireAffected(result, "shopping list "+listID)
	})
}
