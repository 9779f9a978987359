package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/larder/internal/cli"
	"github.com/Veraticus/larder/internal/model"
)

// stapleRecord is one entry of a staples file.
type stapleRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

func (r stapleRecord) toModel() (model.PantryStaple, error) {
	category := model.CategoryOther
	if strings.TrimSpace(r.Category) != "" {
		c, err := model.ParseStapleCategory(r.Category)
		if err != nil {
			return model.PantryStaple{}, fmt.Errorf("staple %s: %w", r.ID, err)
		}
		category = c
	}
	return model.PantryStaple{
		ID:       r.ID,
		Name:     strings.TrimSpace(r.Name),
		Category: category,
		Icon:     r.Icon,
	}, nil
}

func staplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staples",
		Short: "Manage pantry staples",
		Long:  `Pantry staples are the everyday items restock looks for in store offers.`,
	}

	cmd.AddCommand(staplesImportCmd())
	cmd.AddCommand(staplesListCmd())
	cmd.AddCommand(staplesRemoveCmd())

	return cmd
}

func staplesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <staples.json>",
		Short: "Import pantry staples; file order is display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var records []stapleRecord
			if err := readJSONFile(args[0], &records, true); err != nil {
				return err
			}

			staples := make([]model.PantryStaple, 0, len(records))
			for _, r := range records {
				staple, err := r.toModel()
				if err != nil {
					return err
				}
				staples = append(staples, staple)
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveStaples(cmd.Context(), staples); err != nil {
				return err
			}
			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d staples", len(staples))))
			return nil
		},
	}
}

func staplesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pantry staples by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			staples, err := store.FetchStaples(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println(cli.RenderStaples(staples))
			return nil
		},
	}
}

func staplesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a pantry staple",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.local.DeleteStaple(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println(cli.FormatSuccess("Removed staple " + args[0]))
			return nil
		},
	}
}
