package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/larder/internal/cli"
	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/meallog"
	"github.com/Veraticus/larder/internal/model"
)

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Track which meals were eaten",
		Long: `Record per-day meal consumption for the current user. Each of breakfast,
lunch and dinner is pending, completed or skipped; completing or skipping
the same slot twice returns it to pending.`,
	}

	cmd.AddCommand(logShowCmd())
	cmd.AddCommand(logSlotCmd("complete", "Toggle a meal as eaten", (*meallog.Service).ToggleCompleted))
	cmd.AddCommand(logSlotCmd("skip", "Toggle a meal as skipped", (*meallog.Service).ToggleSkipped))
	cmd.AddCommand(logPhotoCmd())
	cmd.AddCommand(logExtraCmd())
	cmd.AddCommand(logAssignCmd())

	return cmd
}

// runLog opens storage and applies fn to the meal log service for the --date day.
func runLog(cmd *cobra.Command, fn func(context.Context, *meallog.Service, model.Actor, time.Time) (*model.DailyMealLog, error)) error {
	day, err := dateFlag(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	log, err := fn(cmd.Context(), meallog.NewService(store), currentActor(), day)
	if err != nil {
		return err
	}
	cmd.Println(cli.RenderMealLog(log))
	return nil
}

func logShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the day's meal log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLog(cmd, func(ctx context.Context, s *meallog.Service, actor model.Actor, day time.Time) (*model.DailyMealLog, error) {
				return s.Get(ctx, actor, day)
			})
		},
	}
	addDateFlag(cmd)
	return cmd
}

type slotToggle func(*meallog.Service, context.Context, model.Actor, time.Time, model.MealSlot) (*model.DailyMealLog, error)

func logSlotCmd(name, short string, toggle slotToggle) *cobra.Command {
	cmd := &cobra.Command{
		Use:       name + " <breakfast|lunch|dinner>",
		Short:     short,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.Breakfast), string(model.Lunch), string(model.Dinner)},
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := model.ParseMealSlot(args[0])
			if err != nil {
				return common.NewUserError("meal must be breakfast, lunch or dinner", err)
			}
			return runLog(cmd, func(ctx context.Context, s *meallog.Service, actor model.Actor, day time.Time) (*model.DailyMealLog, error) {
				return toggle(s, ctx, actor, day, slot)
			})
		},
	}
	addDateFlag(cmd)
	return cmd
}

func logPhotoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo <url>",
		Short: "Attach a food photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			photo := model.FoodPhoto{URL: args[0], Description: description}
			if cmd.Flags().Changed("calories") {
				kcal, _ := cmd.Flags().GetInt("calories")
				photo.EstimatedCalories = &kcal
			}
			return runLog(cmd, func(ctx context.Context, s *meallog.Service, actor model.Actor, day time.Time) (*model.DailyMealLog, error) {
				return s.AddPhoto(ctx, actor, day, photo)
			})
		},
	}
	addDateFlag(cmd)
	cmd.Flags().Int("calories", 0, "estimated calories")
	cmd.Flags().String("description", "", "what is in the photo")
	return cmd
}

func logExtraCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extra",
		Short: "Set calories eaten outside the plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			kcal, _ := cmd.Flags().GetInt("calories")
			description, _ := cmd.Flags().GetString("description")
			return runLog(cmd, func(ctx context.Context, s *meallog.Service, actor model.Actor, day time.Time) (*model.DailyMealLog, error) {
				return s.SetExtra(ctx, actor, day, kcal, description)
			})
		},
	}
	addDateFlag(cmd)
	cmd.Flags().Int("calories", 0, "extra calories")
	cmd.Flags().String("description", "", "what was eaten")
	_ = cmd.MarkFlagRequired("calories")
	return cmd
}

func logAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <plan-id>",
		Short: "Record which meal plan the day follows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, func(ctx context.Context, s *meallog.Service, actor model.Actor, day time.Time) (*model.DailyMealLog, error) {
				return s.AssignPlan(ctx, actor, day, args[0])
			})
		},
	}
	addDateFlag(cmd)
	return cmd
}
