package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hannahhealth/sms-gateway/backend/internal/conversation"
	"github.com/hannahhealth/sms-gateway/backend/internal/models"
)

func setupFoodLogDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FoodLog{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, phone string) *models.User {
	user := &models.User{
		ID:          uuid.New(),
		Name:        "Test User",
		PhoneNumber: phone,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestFoodLogService_ResolveUser(t *testing.T) {
	db := setupFoodLogDB(t)
	ctx := context.Background()

	t.Run("finds a registered user by phone", func(t *testing.T) {
		created := createTestUser(t, db, "+15555550001")
		svc := NewFoodLogService(db, false)

		user, err := svc.ResolveUser(ctx, "+15555550001")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("unknown phone yields ErrUnknownUser", func(t *testing.T) {
		svc := NewFoodLogService(db, false)

		_, err := svc.ResolveUser(ctx, "+15555559999")
		assert.ErrorIs(t, err, ErrUnknownUser)
	})

	t.Run("auto-provisioning creates a user on first contact", func(t *testing.T) {
		svc := NewFoodLogService(db, true)

		user, err := svc.ResolveUser(ctx, "+15555550002")
		require.NoError(t, err)
		assert.Equal(t, "+15555550002", user.PhoneNumber)

		again, err := svc.ResolveUser(ctx, "+15555550002")
		require.NoError(t, err)
		assert.Equal(t, user.ID, again.ID)
	})
}

func TestFoodLogService_LogFood(t *testing.T) {
	db := setupFoodLogDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "+15555550010")
	svc := NewFoodLogService(db, false)

	t.Run("writes one row for the confirmed draft", func(t *testing.T) {
		draft := conversation.Draft{FoodName: "Banana", Calories: 105, Confidence: 1}

		logged, err := svc.LogFood(ctx, "+15555550010", draft)
		require.NoError(t, err)
		assert.Equal(t, user.ID, logged.UserID)
		assert.Equal(t, "Banana", logged.FoodName)
		assert.Equal(t, 105, logged.Calories)
		assert.Equal(t, "sms", logged.LoggedVia)
		assert.NotEmpty(t, logged.MealType)

		var count int64
		require.NoError(t, db.Model(&models.FoodLog{}).Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("keeps an explicit meal type", func(t *testing.T) {
		draft := conversation.Draft{FoodName: "Toast", Calories: 80, MealType: "breakfast", Confidence: 1}

		logged, err := svc.LogFood(ctx, "+15555550010", draft)
		require.NoError(t, err)
		assert.Equal(t, "breakfast", logged.MealType)
	})

	t.Run("unknown user writes nothing", func(t *testing.T) {
		_, err := svc.LogFood(ctx, "+15555559999", conversation.Draft{FoodName: "Banana", Calories: 105})
		assert.ErrorIs(t, err, ErrUnknownUser)
	})
}

func TestFoodLogService_DailyTotal(t *testing.T) {
	db := setupFoodLogDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "+15555550020")
	svc := NewFoodLogService(db, false)

	_, err := svc.LogFood(ctx, user.PhoneNumber, conversation.Draft{FoodName: "Apple", Calories: 95, Confidence: 1})
	require.NoError(t, err)
	_, err = svc.LogFood(ctx, user.PhoneNumber, conversation.Draft{FoodName: "Banana", Calories: 105, Confidence: 1})
	require.NoError(t, err)

	// A row from yesterday must not count toward today
	old := models.FoodLog{
		ID:       uuid.New(),
		UserID:   user.ID,
		FoodName: "Pizza",
		Calories: 600,
	}
	require.NoError(t, db.Create(&old).Error)
	yesterday := time.Now().Add(-24 * time.Hour)
	require.NoError(t, db.Model(&old).Update("created_at", yesterday).Error)

	total, err := svc.DailyTotal(ctx, user.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 200, total)
}

func TestInferMealType(t *testing.T) {
	tests := []struct {
		hour     int
		expected string
	}{
		{7, "breakfast"},
		{10, "breakfast"},
		{12, "lunch"},
		{15, "lunch"},
		{18, "dinner"},
		{21, "dinner"},
		{23, "snack"},
		{1, "snack"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			at := time.Date(2026, 3, 10, tt.hour, 0, 0, 0, time.UTC)
			assert.Equal(t, tt.expected, inferMealType(at))
		})
	}
}
