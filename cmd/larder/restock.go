package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/larder/internal/cli"
	"github.com/Veraticus/larder/internal/engine"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/shopping"
)

func restockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restock",
		Short: "Add pantry staples that are on offer to the shopping list",
		Long: `Match pantry staples against the offers valid today at the household's
preferred chains and merge every match into the active shopping list.
Running it again refreshes prices without duplicating items.`,
		RunE: runRestock,
	}

	addDateFlag(cmd)
	cmd.Flags().Bool("all", false, "restock every known household")
	cmd.Flags().Int("workers", engine.DefaultConfig().ParallelWorkers, "households restocked at once with --all")

	return cmd
}

func runRestock(cmd *cobra.Command, _ []string) error {
	day, err := dateFlag(cmd)
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")
	workers, _ := cmd.Flags().GetInt("workers")

	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	restocker := engine.NewWithConfig(store, shopping.NewService(store), engine.Config{ParallelWorkers: workers})

	if !all {
		report, err := restocker.Restock(cmd.Context(), currentActor(), day)
		if err != nil {
			return err
		}
		cmd.Println(cli.RenderRestockReport(report))
		if report.List != nil {
			cmd.Println(cli.RenderShoppingList(report.List))
		}
		return nil
	}

	households, err := store.ListHouseholds(cmd.Context())
	if err != nil {
		return err
	}
	actors := make([]model.Actor, len(households))
	for i, h := range households {
		actors[i] = model.Actor{HouseholdID: h.ID}
	}

	results, err := restocker.RestockAll(cmd.Context(), actors, day)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		cmd.Println(cli.BoldStyle.Render(res.HouseholdID))
		if res.Error != nil {
			failed++
			cmd.Println(cli.FormatError(res.Error.Error()))
			continue
		}
		cmd.Println(cli.RenderRestockReport(res.Report))
	}
	if failed > 0 {
		return fmt.Errorf("restock failed for %d of %d households", failed, len(results))
	}
	return nil
}
