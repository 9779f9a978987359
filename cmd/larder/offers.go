package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/larder/internal/cli"
	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/offers"
	"github.com/Veraticus/larder/internal/service"
)

const offerImportBatch = 50

// offerRecord is one entry of an offer feed file.
type offerRecord struct {
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
	ID            string   `json:"id"`
	ProductName   string   `json:"productName"`
	ChainID       string   `json:"chainId"`
	ChainName     string   `json:"chainName,omitempty"`
	ValidFrom     string   `json:"validFrom"`
	ValidUntil    string   `json:"validUntil"`
	Price         float64  `json:"price"`
}

func (r offerRecord) toModel() (model.Offer, error) {
	from, err := model.ParseDay(r.ValidFrom)
	if err != nil {
		return model.Offer{}, fmt.Errorf("offer %s: %w", r.ID, err)
	}
	until, err := model.ParseDay(r.ValidUntil)
	if err != nil {
		return model.Offer{}, fmt.Errorf("offer %s: %w", r.ID, err)
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.Offer{
		ID:            r.ID,
		ProductName:   strings.TrimSpace(r.ProductName),
		ChainID:       r.ChainID,
		ChainName:     r.ChainName,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		ValidFrom:     from,
		ValidUntil:    until,
		IsActive:      active,
	}, nil
}

func offersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Import and browse store offers",
	}

	cmd.AddCommand(offersImportCmd())
	cmd.AddCommand(offersListCmd())

	return cmd
}

func offersImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <offers.json>",
		Short: "Import an offer feed",
		Long: `Import a JSON array of offers. Existing offers with the same id are replaced,
and chains named in the feed are created or renamed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var records []offerRecord
			if err := readJSONFile(args[0], &records, true); err != nil {
				return err
			}

			all := make([]model.Offer, 0, len(records))
			for _, r := range records {
				offer, err := r.toModel()
				if err != nil {
					return err
				}
				all = append(all, offer)
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := cli.NewPrompter(nil, cmd.OutOrStdout()).Progress(len(all), "Importing offers")
			imported, err := importOffers(cmd.Context(), store, all, func(n int) {
				if err := bar.Add(n); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			})
			if err != nil {
				return fmt.Errorf("imported %d of %d offers: %w", imported, len(all), err)
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d offers", imported)))
			return nil
		},
	}
}

// importOffers saves offers in batches, reporting progress after each batch.
func importOffers(ctx context.Context, catalog service.Catalog, all []model.Offer, progress func(int)) (int, error) {
	imported := 0
	for start := 0; start < len(all); start += offerImportBatch {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		end := min(start+offerImportBatch, len(all))
		if err := catalog.SaveOffers(ctx, all[start:end]); err != nil {
			return imported, err
		}
		imported += end - start
		if progress != nil {
			progress(end - start)
		}
	}
	return imported, nil
}

func offersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List offers eligible for the current household",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := dateFlag(cmd)
			if err != nil {
				return err
			}
			retries, _ := cmd.Flags().GetInt("retries")
			actor, err := householdActor()
			if err != nil {
				return err
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			household, err := store.GetHousehold(cmd.Context(), actor.HouseholdID)
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError("household has no preferences yet; run 'larder household set'", err)
			}
			if err != nil {
				return err
			}

			eligible, err := fetchWithRetry(cmd.Context(), offers.NewAdapter(store, "offer catalog"), household, day, retries)
			if err != nil {
				return err
			}

			cmd.Println(cli.RenderOffers(eligible))
			return nil
		},
	}

	addDateFlag(cmd)
	cmd.Flags().Int("retries", 0, "retry attempts when the offer source is unavailable")

	return cmd
}

// fetchWithRetry loads eligible offers, retrying transient failures when attempts > 0.
func fetchWithRetry(ctx context.Context, adapter *offers.Adapter, household *model.Household, day time.Time, attempts int) ([]model.Offer, error) {
	if attempts <= 0 {
		return adapter.EligibleForHousehold(ctx, household, day)
	}

	var eligible []model.Offer
	err := common.WithRetry(ctx, func() error {
		var err error
		eligible, err = adapter.EligibleForHousehold(ctx, household, day)
		return err
	}, service.RetryOptions{MaxAttempts: attempts + 1})
	return eligible, err
}
