package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/larder/internal/model"
)

// SaveChains inserts or renames chains.
func (s *SQLiteStorage) SaveChains(ctx context.Context, chains []model.Chain) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i, chain := range chains {
		if err := validateChain(chain); err != nil {
			return fmt.Errorf("chain at index %d: %w", i, err)
		}
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, chain := range chains {
			if err := saveChainTx(ctx, tx, chain); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveChainTx(ctx context.Context, q queryable, chain model.Chain) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO chains (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, chain.ID, chain.Name)
	if err != nil {
		return fmt.Errorf("failed to save chain %s: %w", chain.ID, err)
	}
	return nil
}

// GetChains returns every known chain ordered by name.
func (s *SQLiteStorage) GetChains(ctx context.Context) ([]model.Chain, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM chains ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chains: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chains []model.Chain
	for rows.Next() {
		var c model.Chain
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan chain: %w", err)
		}
		chains = append(chains, c)
	}
	return chains, rows.Err()
}

// SaveOffers upserts offers. A chain named on an offer is recorded too.
func (s *SQLiteStorage) SaveOffers(ctx context.Context, offers []model.Offer) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i, offer := range offers {
		if err := validateOffer(offer); err != nil {
			return fmt.Errorf("offer at index %d: %w", i, err)
		}
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO offers (id, product_name, chain_id, price, original_price, valid_from, valid_until, is_active, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(id) DO UPDATE SET
				product_name = excluded.product_name,
				chain_id = excluded.chain_id,
				price = excluded.price,
				original_price = excluded.original_price,
				valid_from = excluded.valid_from,
				valid_until = excluded.valid_until,
				is_active = excluded.is_active,
				updated_at = CURRENT_TIMESTAMP
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare offer statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, o := range offers {
			if o.ChainName != "" {
				if err := saveChainTx(ctx, tx, model.Chain{ID: o.ChainID, Name: o.ChainName}); err != nil {
					return err
				}
			}
			_, err := stmt.ExecContext(ctx,
				o.ID,
				o.ProductName,
				o.ChainID,
				o.Price,
				nullFloat(o.OriginalPrice),
				model.FormatDay(o.ValidFrom),
				model.FormatDay(o.ValidUntil),
				o.IsActive,
			)
			if err != nil {
				return fmt.Errorf("failed to save offer %s: %w", o.ID, err)
			}
		}
		return nil
	})
}

// FetchOffers returns active offers of the given chains that are valid on asOf,
// cheapest first with ties broken by ID.
func (s *SQLiteStorage) FetchOffers(ctx context.Context, chainIDs []string, asOf time.Time) ([]model.Offer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(chainIDs) == 0 {
		return []model.Offer{}, nil
	}

	day := model.FormatDay(asOf)
	args := make([]any, 0, len(chainIDs)+2)
	for _, id := range chainIDs {
		args = append(args, id)
	}
	args = append(args, day, day)

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chainIDs)), ",")
	// #nosec G201 - placeholders only contains "?" markers
	query := fmt.Sprintf(`
		SELECT o.id, o.product_name, o.chain_id, COALESCE(c.name, ''), o.price, o.original_price,
		       o.valid_from, o.valid_until, o.is_active
		FROM offers o
		LEFT JOIN chains c ON c.id = o.chain_id
		WHERE o.chain_id IN (%s)
		  AND o.is_active = 1
		  AND o.valid_from <= ?
		  AND o.valid_until >= ?
		ORDER BY o.price ASC, o.id ASC
	`, placeholders)

	return queryOffers(ctx, s.db, query, args...)
}

// ListOffers returns every stored offer, cheapest first.
func (s *SQLiteStorage) ListOffers(ctx context.Context) ([]model.Offer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return queryOffers(ctx, s.db, `
		SELECT o.id, o.product_name, o.chain_id, COALESCE(c.name, ''), o.price, o.original_price,
		       o.valid_from, o.valid_until, o.is_active
		FROM offers o
		LEFT JOIN chains c ON c.id = o.chain_id
		ORDER BY o.price ASC, o.id ASC
	`)
}

func queryOffers(ctx context.Context, q queryable, query string, args ...any) ([]model.Offer, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	offers := []model.Offer{}
	for rows.Next() {
		var (
			o             model.Offer
			originalPrice sql.NullFloat64
			from, until   string
		)
		if err := rows.Scan(&o.ID, &o.ProductName, &o.ChainID, &o.ChainName, &o.Price, &originalPrice,
			&from, &until, &o.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		o.OriginalPrice = floatPtr(originalPrice)
		if o.ValidFrom, err = model.ParseDay(from); err != nil {
			return nil, fmt.Errorf("offer %s: %w", o.ID, err)
		}
		if o.ValidUntil, err = model.ParseDay(until); err != nil {
			return nil, fmt.Errorf("offer %s: %w", o.ID, err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate offers: %w", err)
	}
	return offers, nil
}
