package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/config"
	"github.com/Veraticus/larder/internal/dynamo"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/service"
	"github.com/Veraticus/larder/internal/storage"
)

// backend bundles the configured store with the local SQLite catalog behind it.
type backend struct {
	service.Storage
	local *storage.SQLiteStorage
}

// openSQLite opens and migrates the local database.
func openSQLite(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initStorage opens the configured backend. The catalog and households always
// live in SQLite; with the dynamodb backend lists and logs move to DynamoDB.
func initStorage(ctx context.Context) (*backend, error) {
	local, err := openSQLite(ctx)
	if err != nil {
		return nil, err
	}

	switch backendName := viper.GetString("storage.backend"); backendName {
	case "", "sqlite":
		return &backend{Storage: local, local: local}, nil
	case "dynamodb":
		opts := dynamo.Options{
			TableName: viper.GetString("dynamodb.table"),
			Region:    viper.GetString("dynamodb.region"),
			Endpoint:  viper.GetString("dynamodb.endpoint"),
		}
		client, err := dynamo.NewClient(ctx, opts)
		if err != nil {
			_ = local.Close()
			return nil, err
		}
		store := dynamo.NewStore(client, opts.TableName)
		return &backend{Storage: dynamo.Overlay(local, store), local: local}, nil
	default:
		_ = local.Close()
		return nil, fmt.Errorf("%w: storage.backend %q", common.ErrInvalidConfig, backendName)
	}
}

// currentActor reads the acting household and user from configuration.
func currentActor() model.Actor {
	return model.Actor{
		HouseholdID: strings.TrimSpace(viper.GetString("household.id")),
		UserID:      strings.TrimSpace(viper.GetString("user.id")),
	}
}

// householdActor is currentActor for commands that need a household.
func householdActor() (model.Actor, error) {
	actor := currentActor()
	if actor.HouseholdID == "" {
		return actor, common.NewUserError("set household.id in the config or pass --household", common.ErrMissingConfig)
	}
	return actor, nil
}

func addDateFlag(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "calendar date as YYYY-MM-DD (default: today)")
}

// dateFlag returns the --date flag as a calendar day, defaulting to today.
func dateFlag(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		return model.Day(time.Now()), nil
	}
	day, err := model.ParseDay(raw)
	if err != nil {
		return time.Time{}, common.NewUserError("--date must look like 2026-01-31", err)
	}
	return day, nil
}

// readJSONFile decodes a JSON document. Strict decoding rejects unknown fields.
func readJSONFile(path string, out any, strict bool) error {
	f, err := os.Open(path) //nolint:gosec // user-supplied import path
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// resolveItemID expands a displayed id prefix to the full id of an item on the list.
func resolveItemID(list *model.ShoppingList, prefix string) (string, error) {
	if list == nil {
		return "", common.NewUserError("no active shopping list", common.ErrNotFound)
	}
	var found string
	for _, item := range list.Items {
		if item.ID == prefix {
			return item.ID, nil
		}
		if strings.HasPrefix(item.ID, prefix) {
			if found != "" {
				return "", common.NewUserError(fmt.Sprintf("item id %q is ambiguous", prefix), common.ErrInvalidConfig)
			}
			found = item.ID
		}
	}
	if found == "" {
		return "", common.NewUserError(fmt.Sprintf("no item %q on the list", prefix), common.ErrNotFound)
	}
	return found, nil
}
