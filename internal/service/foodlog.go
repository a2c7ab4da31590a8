package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hannahhealth/sms-gateway/backend/internal/conversation"
	"github.com/hannahhealth/sms-gateway/backend/internal/models"
)

// ErrUnknownUser is returned when a phone number resolves to no account.
// Distinguished from storage outages in logs, identical to the end user.
var ErrUnknownUser = errors.New("no user registered for this phone number")

// FoodLogService resolves phone numbers to users and writes food log rows.
type FoodLogService struct {
	db            *gorm.DB
	autoProvision bool
}

// NewFoodLogService creates a new FoodLogService instance
func NewFoodLogService(db *gorm.DB, autoProvision bool) *FoodLogService {
	return &FoodLogService{db: db, autoProvision: autoProvision}
}

// ResolveUser finds the user behind an E.164 phone number, optionally
// creating one on first contact when auto-provisioning is enabled.
func (s *FoodLogService) ResolveUser(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.autoProvision {
		return nil, ErrUnknownUser
	}

	user = models.User{
		ID:          uuid.New(),
		PhoneNumber: phone,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// LogFood writes exactly one food log record for the confirmed draft.
func (s *FoodLogService) LogFood(ctx context.Context, phone string, draft conversation.Draft) (*models.FoodLog, error) {
	user, err := s.ResolveUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	mealType := draft.MealType
	if mealType == "" {
		mealType = inferMealType(time.Now())
	}

	entry := models.FoodLog{
		ID:         uuid.New(),
		UserID:     user.ID,
		FoodName:   draft.FoodName,
		Calories:   draft.Calories,
		MealType:   mealType,
		Confidence: draft.Confidence,
		LoggedVia:  "sms",
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to save food log: %w", err)
	}

	return &entry, nil
}

// DailyTotal sums the user's logged calories for the calendar day of `at`.
func (s *FoodLogService) DailyTotal(ctx context.Context, userID uuid.UUID, at time.Time) (int, error) {
	startOfDay := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())

	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.FoodLog{}).
		Where("user_id = ? AND created_at >= ?", userID, startOfDay).
		Select("COALESCE(SUM(calories), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum daily calories: %w", err)
	}

	return int(total), nil
}

func inferMealType(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 11:
		return "breakfast"
	case hour < 16:
		return "lunch"
	case hour < 22:
		return "dinner"
	default:
		return "snack"
	}
}
