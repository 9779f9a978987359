package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/service"
)

// Options select the table and endpoint. Credentials come from the default AWS chain.
type Options struct {
	TableName string
	Region    string
	// Endpoint overrides the service endpoint, for DynamoDB Local.
	Endpoint string
}

// NewClient loads the default AWS configuration and builds a DynamoDB client.
func NewClient(ctx context.Context, opts Options) (*dynamodb.Client, error) {
	if opts.TableName == "" {
		return nil, fmt.Errorf("%w: dynamodb.table is required", common.ErrMissingConfig)
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// Overlay serves shopping lists and meal logs from store and everything else from base.
func Overlay(base service.Storage, store *Store) service.Storage {
	return &overlay{Storage: base, records: store}
}

type overlay struct {
	service.Storage
	records *Store
}

func (o *overlay) GetShoppingList(ctx context.Context, householdID, listID string) (*model.ShoppingList, error) {
	return o.records.GetShoppingList(ctx, householdID, listID)
}

func (o *overlay) GetActiveShoppingList(ctx context.Context, householdID string) (*model.ShoppingList, error) {
	return o.records.GetActiveShoppingList(ctx, householdID)
}

func (o *overlay) UpsertShoppingList(ctx context.Context, list *model.ShoppingList) error {
	return o.records.UpsertShoppingList(ctx, list)
}

func (o *overlay) DeleteShoppingList(ctx context.Context, householdID, listID string) error {
	return o.records.DeleteShoppingList(ctx, householdID, listID)
}

func (o *overlay) ListShoppingLists(ctx context.Context, householdID string, limit int) ([]model.ShoppingList, error) {
	return o.records.ListShoppingLists(ctx, householdID, limit)
}

func (o *overlay) GetMealLog(ctx context.Context, userID string, date time.Time) (*model.DailyMealLog, error) {
	return o.records.GetMealLog(ctx, userID, date)
}

func (o *overlay) UpsertMealLog(ctx context.Context, log *model.DailyMealLog) error {
	return o.records.UpsertMealLog(ctx, log)
}

func (o *overlay) DeleteMealLogsByPlan(ctx context.Context, userID, mealPlanID string) (int, error) {
	return o.records.DeleteMealLogsByPlan(ctx, userID, mealPlanID)
}
