// Package dynamo stores shopping lists and meal logs in a single DynamoDB table.
//
// Records use a composite key: PK is "<owner>:<Kind>" and SK identifies the
// record within the owner, a list id for shopping lists or a YYYY-MM-DD date
// for meal logs. Each record is written whole.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
	"github.com/Veraticus/larder/internal/service"
)

const (
	shoppingListKind = "ShoppingList"
	mealLogKind      = "MealLog"
)

// Client is the subset of the DynamoDB API the store uses.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store implements service.ShoppingListStore and service.MealLogStore.
type Store struct {
	client    Client
	tableName string
	now       func() time.Time
}

var (
	_ service.ShoppingListStore = (*Store)(nil)
	_ service.MealLogStore      = (*Store)(nil)
)

// NewStore creates a store over the given table.
func NewStore(client Client, tableName string) *Store {
	return &Store{client: client, tableName: tableName, now: time.Now}
}

func primaryKey(owner, kind string) string {
	return fmt.Sprintf("%s:%s", owner, kind)
}

func itemKey(pk, sk string) (map[string]types.AttributeValue, error) {
	pkv, err := attributevalue.Marshal(pk)
	if err != nil {
		return nil, err
	}
	skv, err := attributevalue.Marshal(sk)
	if err != nil {
		return nil, err
	}
	return map[string]types.AttributeValue{"PK": pkv, "SK": skv}, nil
}

func (s *Store) get(ctx context.Context, pk, sk string, out any) error {
	key, err := itemKey(pk, sk)
	if err != nil {
		return err
	}
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to get %s/%s: %w", pk, sk, err)
	}
	if resp.Item == nil {
		return fmt.Errorf("%s/%s: %w", pk, sk, common.ErrNotFound)
	}
	if err := attributevalue.UnmarshalMap(resp.Item, out); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", pk, sk, err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, record any) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}
	return nil
}

// deleteExisting removes a record, reporting common.ErrNotFound when it is absent.
func (s *Store) deleteExisting(ctx context.Context, pk, sk string) error {
	key, err := itemKey(pk, sk)
	if err != nil {
		return err
	}
	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("PK").AttributeExists().And(expression.Name("SK").AttributeExists())).
		Build()
	if err != nil {
		return err
	}
	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.tableName),
		Key:                      key,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return fmt.Errorf("%s/%s: %w", pk, sk, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", pk, sk, err)
	}
	return nil
}

// queryAll returns every record under pk, following pagination.
func (s *Store) queryAll(ctx context.Context, pk string, out any) error {
	keyEx := expression.Key("PK").Equal(expression.Value(pk))
	expr, err := expression.NewBuilder().WithKeyCondition(keyEx).Build()
	if err != nil {
		return err
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		output, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", pk, err)
		}
		items = append(items, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		startKey = output.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", pk, err)
	}
	return nil
}

// GetShoppingList returns one list of a household.
func (s *Store) GetShoppingList(ctx context.Context, householdID, listID string) (*model.ShoppingList, error) {
	if householdID == "" || listID == "" {
		return nil, fmt.Errorf("household and list id are required: %w", common.ErrNotFound)
	}
	var dto shoppingListDTO
	if err := s.get(ctx, primaryKey(householdID, shoppingListKind), listID, &dto); err != nil {
		return nil, err
	}
	return dto.toModel(), nil
}

// GetActiveShoppingList returns the household's most recently updated uncompleted list.
func (s *Store) GetActiveShoppingList(ctx context.Context, householdID string) (*model.ShoppingList, error) {
	if householdID == "" {
		return nil, fmt.Errorf("household id is required: %w", common.ErrNotFound)
	}
	var dtos []shoppingListDTO
	if err := s.queryAll(ctx, primaryKey(householdID, shoppingListKind), &dtos); err != nil {
		return nil, err
	}

	var active *shoppingListDTO
	for i := range dtos {
		if dtos[i].Completed {
			continue
		}
		if active == nil || dtos[i].UpdateTime.After(active.UpdateTime) {
			active = &dtos[i]
		}
	}
	if active == nil {
		return nil, fmt.Errorf("active list for %s: %w", householdID, common.ErrNotFound)
	}
	return active.toModel(), nil
}

// ListShoppingLists returns the household's lists, newest first. Items are included.
// A non-positive limit returns every list.
func (s *Store) ListShoppingLists(ctx context.Context, householdID string, limit int) ([]model.ShoppingList, error) {
	var dtos []shoppingListDTO
	if err := s.queryAll(ctx, primaryKey(householdID, shoppingListKind), &dtos); err != nil {
		return nil, err
	}
	sort.SliceStable(dtos, func(i, j int) bool {
		return dtos[i].CreateTime.After(dtos[j].CreateTime)
	})
	if limit > 0 && len(dtos) > limit {
		dtos = dtos[:limit]
	}

	lists := make([]model.ShoppingList, 0, len(dtos))
	for _, dto := range dtos {
		lists = append(lists, *dto.toModel())
	}
	return lists, nil
}

// UpsertShoppingList writes the whole list record.
func (s *Store) UpsertShoppingList(ctx context.Context, list *model.ShoppingList) error {
	if list == nil || list.ID == "" || list.HouseholdID == "" {
		return errors.New("shopping list requires an id and a household")
	}
	dto := listToDTO(primaryKey(list.HouseholdID, shoppingListKind), list, s.now().UTC())
	return s.put(ctx, dto)
}

// DeleteShoppingList removes a list.
func (s *Store) DeleteShoppingList(ctx context.Context, householdID, listID string) error {
	return s.deleteExisting(ctx, primaryKey(householdID, shoppingListKind), listID)
}

// GetMealLog returns the user's log for a calendar day.
func (s *Store) GetMealLog(ctx context.Context, userID string, date time.Time) (*model.DailyMealLog, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", common.ErrNotFound)
	}
	var dto mealLogDTO
	if err := s.get(ctx, primaryKey(userID, mealLogKind), model.FormatDay(date), &dto); err != nil {
		return nil, err
	}
	return dto.toModel()
}

// UpsertMealLog writes the whole log record for (user, date).
func (s *Store) UpsertMealLog(ctx context.Context, log *model.DailyMealLog) error {
	if log == nil || log.UserID == "" || log.Date.IsZero() {
		return errors.New("meal log requires a user and a date")
	}
	return s.put(ctx, mealLogToDTO(primaryKey(log.UserID, mealLogKind), log, s.now().UTC()))
}

// DeleteMealLogsByPlan removes the user's logs recorded against a meal plan.
func (s *Store) DeleteMealLogsByPlan(ctx context.Context, userID, mealPlanID string) (int, error) {
	if userID == "" || mealPlanID == "" {
		return 0, errors.New("user and meal plan id are required")
	}
	pk := primaryKey(userID, mealLogKind)
	var dtos []mealLogDTO
	if err := s.queryAll(ctx, pk, &dtos); err != nil {
		return 0, err
	}

	deleted := 0
	for _, dto := range dtos {
		if dto.MealPlanID != mealPlanID {
			continue
		}
		if err := s.deleteExisting(ctx, pk, dto.SK); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
