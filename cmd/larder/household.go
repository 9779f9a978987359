package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/larder/internal/cli"
	"github.com/Veraticus/larder/internal/model"
)

func householdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "household",
		Short: "Manage household store preferences",
		Long:  `Set which store chains a household shops at. Only their offers are considered.`,
	}

	cmd.AddCommand(householdSetCmd())
	cmd.AddCommand(householdShowCmd())
	cmd.AddCommand(householdListCmd())

	return cmd
}

func householdSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the preferred chains of the current household",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := householdActor()
			if err != nil {
				return err
			}

			chains, _ := cmd.Flags().GetStringSlice("chains")
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				name = actor.HouseholdID
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			household := &model.Household{ID: actor.HouseholdID, Name: name, PreferredChains: chains}
			if err := store.SaveHousehold(cmd.Context(), household); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Household %s shops at: %s", household.ID, strings.Join(chains, ", "))))
			return nil
		},
	}

	cmd.Flags().StringSlice("chains", nil, "preferred chain ids, comma separated")
	cmd.Flags().String("name", "", "display name")
	_ = cmd.MarkFlagRequired("chains")

	return cmd
}

func householdShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current household's preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			if err != nil {
				return err
			}
			cmd.Println(renderHousehold(*household))
			return nil
		},
	}
}

func householdListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all households",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			households, err := store.ListHouseholds(cmd.Context())
			if err != nil {
				return err
			}
			if len(households) == 0 {
				cmd.Println(cli.FormatInfo("No households yet; run 'larder household set'"))
			}
			for _, h := range households {
				cmd.Println(renderHousehold(h))
			}
			return nil
		},
	}
}

func renderHousehold(h model.Household) string {
	chains := strings.Join(h.PreferredChains, ", ")
	if chains == "" {
		chains = cli.SubtleStyle.Render("(no chains)")
	}
	return fmt.Sprintf("%s %s  %s", cli.BoldStyle.Render(h.ID), h.Name, chains)
}
