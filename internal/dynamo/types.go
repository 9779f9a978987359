package dynamo

import (
	"time"

	"github.com/Veraticus/larder/internal/model"
)

type shoppingListItemDTO struct {
	Price      *float64 `dynamodbav:"price,omitempty"`
	OfferPrice *float64 `dynamodbav:"offerPrice,omitempty"`
	ID         string   `dynamodbav:"id"`
	Name       string   `dynamodbav:"name"`
	Unit       string   `dynamodbav:"unit,omitempty"`
	Store      string   `dynamodbav:"store,omitempty"`
	OfferID    string   `dynamodbav:"offerId,omitempty"`
	Source     string   `dynamodbav:"source,omitempty"`
	Amount     float64  `dynamodbav:"amount"`
	Checked    bool     `dynamodbav:"checked"`
	IsEstimate bool     `dynamodbav:"isEstimate"`
}

type shoppingListDTO struct {
	CreateTime  time.Time             `dynamodbav:"createTime"`
	UpdateTime  time.Time             `dynamodbav:"updateTime"`
	PK          string                `dynamodbav:"PK"`
	SK          string                `dynamodbav:"SK"`
	HouseholdID string                `dynamodbav:"householdId"`
	MealPlanID  string                `dynamodbav:"mealPlanId,omitempty"`
	Items       []shoppingListItemDTO `dynamodbav:"items"`
	TotalPrice  float64               `dynamodbav:"totalPrice"`
	Completed   bool                  `dynamodbav:"completed"`
}

type foodPhotoDTO struct {
	TakenAt           time.Time `dynamodbav:"takenAt"`
	EstimatedCalories *int      `dynamodbav:"estimatedCalories,omitempty"`
	URL               string    `dynamodbav:"url"`
	Description       string    `dynamodbav:"description,omitempty"`
}

type mealLogDTO struct {
	UpdateTime       time.Time      `dynamodbav:"updateTime"`
	PK               string         `dynamodbav:"PK"`
	SK               string         `dynamodbav:"SK"`
	UserID           string         `dynamodbav:"userId"`
	MealPlanID       string         `dynamodbav:"mealPlanId,omitempty"`
	Breakfast        string         `dynamodbav:"breakfast,omitempty"`
	Lunch            string         `dynamodbav:"lunch,omitempty"`
	Dinner           string         `dynamodbav:"dinner,omitempty"`
	ExtraDescription string         `dynamodbav:"extraDescription,omitempty"`
	Photos           []foodPhotoDTO `dynamodbav:"photos,omitempty"`
	ExtraCalories    int            `dynamodbav:"extraCalories"`
}

func listToDTO(pk string, list *model.ShoppingList, now time.Time) shoppingListDTO {
	dto := shoppingListDTO{
		PK:          pk,
		SK:          list.ID,
		HouseholdID: list.HouseholdID,
		MealPlanID:  list.MealPlanID,
		TotalPrice:  list.TotalPrice,
		Completed:   list.Completed,
		CreateTime:  list.CreatedAt,
		UpdateTime:  list.UpdatedAt,
		Items:       make([]shoppingListItemDTO, 0, len(list.Items)),
	}
	if dto.CreateTime.IsZero() {
		dto.CreateTime = now
	}
	if dto.UpdateTime.IsZero() {
		dto.UpdateTime = now
	}
	for _, item := range list.Items {
		dto.Items = append(dto.Items, shoppingListItemDTO{
			ID:         item.ID,
			Name:       item.Name,
			Amount:     item.Amount,
			Unit:       item.Unit,
			Price:      item.Price,
			OfferPrice: item.OfferPrice,
			OfferID:    item.OfferID,
			Store:      item.Store,
			Source:     string(item.Source),
			IsEstimate: item.IsEstimate,
			Checked:    item.Checked,
		})
	}
	return dto
}

func (dto shoppingListDTO) toModel() *model.ShoppingList {
	list := &model.ShoppingList{
		ID:          dto.SK,
		HouseholdID: dto.HouseholdID,
		MealPlanID:  dto.MealPlanID,
		TotalPrice:  dto.TotalPrice,
		Completed:   dto.Completed,
		CreatedAt:   dto.CreateTime,
		UpdatedAt:   dto.UpdateTime,
		Items:       make([]model.ShoppingListItem, 0, len(dto.Items)),
	}
	for _, item := range dto.Items {
		list.Items = append(list.Items, model.ShoppingListItem{
			ID:         item.ID,
			Name:       item.Name,
			Amount:     item.Amount,
			Unit:       item.Unit,
			Price:      item.Price,
			OfferPrice: item.OfferPrice,
			OfferID:    item.OfferID,
			Store:      item.Store,
			Source:     model.ItemSource(item.Source),
			IsEstimate: item.IsEstimate,
			Checked:    item.Checked,
		})
	}
	return list
}

func mealLogToDTO(pk string, log *model.DailyMealLog, now time.Time) mealLogDTO {
	dto := mealLogDTO{
		PK:               pk,
		SK:               model.FormatDay(log.Date),
		UserID:           log.UserID,
		MealPlanID:       log.MealPlanID,
		Breakfast:        string(log.Breakfast),
		Lunch:            string(log.Lunch),
		Dinner:           string(log.Dinner),
		ExtraCalories:    log.ExtraCalories,
		ExtraDescription: log.ExtraDescription,
		UpdateTime:       now,
	}
	for _, p := range log.Photos {
		dto.Photos = append(dto.Photos, foodPhotoDTO{
			URL:               p.URL,
			Description:       p.Description,
			EstimatedCalories: p.EstimatedCalories,
			TakenAt:           p.TakenAt,
		})
	}
	return dto
}

func (dto mealLogDTO) toModel() (*model.DailyMealLog, error) {
	date, err := model.ParseDay(dto.SK)
	if err != nil {
		return nil, err
	}
	log := model.NewDailyMealLog(dto.UserID, date)
	log.MealPlanID = dto.MealPlanID
	log.ExtraCalories = dto.ExtraCalories
	log.ExtraDescription = dto.ExtraDescription

	states := map[model.MealSlot]string{
		model.Breakfast: dto.Breakfast,
		model.Lunch:     dto.Lunch,
		model.Dinner:    dto.Dinner,
	}
	for slot, raw := range states {
		state, err := model.ParseSlotState(raw)
		if err != nil {
			return nil, err
		}
		if err := log.SetSlot(slot, state); err != nil {
			return nil, err
		}
	}

	for _, p := range dto.Photos {
		log.Photos = append(log.Photos, model.FoodPhoto{
			URL:               p.URL,
			Description:       p.Description,
			EstimatedCalories: p.EstimatedCalories,
			TakenAt:           p.TakenAt,
		})
	}
	return log, nil
}
