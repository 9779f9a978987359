package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Veraticus/larder/internal/cli"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/shopping"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Work with the household shopping list",
		Long: `Show and edit the household's active shopping list. Item ids may be
shortened to any unique prefix, as shown by 'larder list show'.`,
	}

	cmd.AddCommand(listShowCmd())
	cmd.AddCommand(listAddCmd())
	cmd.AddCommand(listItemCmd("check <item>", "Check or uncheck an item", (*shopping.Service).Toggle))
	cmd.AddCommand(listItemCmd("remove <item>", "Remove an item", (*shopping.Service).Remove))
	cmd.AddCommand(listActionCmd("clear", "Remove every item", (*shopping.Service).Clear))
	cmd.AddCommand(listActionCmd("complete", "Mark the list as bought; a new list starts next time", (*shopping.Service).Complete))
	cmd.AddCommand(listAbandonCmd())

	return cmd
}

func listShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			actor := currentActor()
			svc := shopping.NewService(store)
			history, _ := cmd.Flags().GetInt("history")
			if history > 0 {
				lists, err := svc.History(cmd.Context(), actor, history)
				if err != nil {
					return err
				}
				for i := range lists {
					cmd.Println(cli.RenderShoppingList(&lists[i]))
				}
				return nil
			}

			list, err := svc.Active(cmd.Context(), actor)
			if err != nil {
				return err
			}
			cmd.Println(cli.RenderShoppingList(list))
			return nil
		},
	}

	cmd.Flags().Int("history", 0, "show the last N lists, newest first, instead of the active one")

	return cmd
}

func listAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, _ := cmd.Flags().GetFloat64("amount")
			unit, _ := cmd.Flags().GetString("unit")

			var price *float64
			if cmd.Flags().Changed("price") {
				p, _ := cmd.Flags().GetFloat64("price")
				price = &p
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			list, err := shopping.NewService(store).AddOrUpdate(cmd.Context(), currentActor(),
				[]shopping.Candidate{shopping.Manual(args[0], amount, unit, price)})
			if err != nil {
				return err
			}
			cmd.Println(cli.RenderShoppingList(list))
			return nil
		},
	}

	cmd.Flags().Float64("amount", 1, "quantity")
	cmd.Flags().String("unit", "", "unit of the quantity")
	cmd.Flags().Float64("price", 0, "price, if known")

	return cmd
}

type itemAction func(*shopping.Service, context.Context, model.Actor, string) (*model.ShoppingList, error)

func listItemCmd(use, short string, action itemAction) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			actor := currentActor()
			lists := shopping.NewService(store)
			active, err := lists.Active(cmd.Context(), actor)
			if err != nil {
				return err
			}
			itemID, err := resolveItemID(active, args[0])
			if err != nil {
				return err
			}

			list, err := action(lists, cmd.Context(), actor, itemID)
			if err != nil {
				return err
			}
			cmd.Println(cli.RenderShoppingList(list))
			return nil
		},
	}
}

type listAction func(*shopping.Service, context.Context, model.Actor) (*model.ShoppingList, error)

func listActionCmd(use, short string, action listAction) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			list, err := action(shopping.NewService(store), cmd.Context(), currentActor())
			if err != nil {
				return err
			}
			cmd.Println(cli.RenderShoppingList(list))
			return nil
		},
	}
}

func listAbandonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abandon",
		Short: "Delete the active list without completing it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				ok, err := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm(cmd.Context(), "Delete the active shopping list?")
				if err != nil || !ok {
					return err
				}
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := shopping.NewService(store).Abandon(cmd.Context(), currentActor()); err != nil {
				return err
			}
			cmd.Println(cli.FormatSuccess("Shopping list deleted"))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	return cmd
}
