package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/larder/internal/cli"
	"github.com/Veraticus/larder/internal/engine"
	"github.com/Veraticus/larder/internal/meallog"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/shopping"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Use a generated meal plan",
	}

	cmd.AddCommand(planSeedCmd())
	cmd.AddCommand(planForgetCmd())

	return cmd
}

func planSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <plan.json>",
		Short: "Add a meal plan's ingredients to the shopping list",
		Long: `Price each ingredient of a meal plan against eligible offers, falling
back to the plan's estimate, and add them to the active shopping list.
With --supersede the active list is deleted and a new one started.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dateFlag(cmd)
			if err != nil {
				return err
			}
			supersede, _ := cmd.Flags().GetBool("supersede")
			yes, _ := cmd.Flags().GetBool("yes")

			var plan model.MealPlan
			if err := readJSONFile(args[0], &plan, false); err != nil {
				return err
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			actor := currentActor()
			lists := shopping.NewService(store)

			if supersede && !yes {
				active, err := lists.Active(cmd.Context(), actor)
				if err != nil {
					return err
				}
				if active != nil {
					question := fmt.Sprintf("Replace the active list (%d items)?", len(active.Items))
					ok, err := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm(cmd.Context(), question)
					if err != nil || !ok {
						return err
					}
				}
			}

			report, err := engine.New(store, lists).SeedFromMealPlan(cmd.Context(), actor, &plan, day, supersede)
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("%d ingredients on offer, %d estimated, %d without price",
				report.Priced, report.Estimated, report.Unpriced)))
			cmd.Println(cli.RenderShoppingList(report.List))
			return nil
		},
	}

	addDateFlag(cmd)
	cmd.Flags().Bool("supersede", false, "start a new list instead of adding to the active one")
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	return cmd
}

func planForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <plan-id>",
		Short: "Delete every meal log recorded against a meal plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := meallog.NewService(store).DeleteForMealPlan(cmd.Context(), currentActor(), args[0])
			if err != nil {
				return err
			}
			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %d meal logs for plan %s", n, args[0])))
			return nil
		},
	}
}
