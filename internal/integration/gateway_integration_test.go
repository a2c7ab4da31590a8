package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannahhealth/sms-gateway/backend/internal/conversation"
	"github.com/hannahhealth/sms-gateway/backend/internal/models"
	"github.com/hannahhealth/sms-gateway/backend/internal/service"
	"github.com/hannahhealth/sms-gateway/backend/internal/testdb"
)

// memStore keeps conversations in memory so the flow test only needs
// Docker for Postgres.
type memStore struct {
	entries map[string]*conversation.Entry
}

func (m *memStore) Get(_ context.Context, phone string) (*conversation.Entry, error) {
	if entry, ok := m.entries[phone]; ok {
		return entry, nil
	}
	return &conversation.Entry{Phone: phone}, nil
}

func (m *memStore) Put(_ context.Context, phone string, entry *conversation.Entry) error {
	m.entries[phone] = entry
	return nil
}

func (m *memStore) Clear(_ context.Context, phone string) error {
	delete(m.entries, phone)
	return nil
}

func requireIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test - INTEGRATION_TESTS not set to true")
	}
}

// TestGatewayFlow drives the describe/confirm/commit cycle end to end with
// a real Postgres and a stubbed AI backend.
func TestGatewayFlow(t *testing.T) {
	requireIntegration(t)

	db := testdb.SetupTestDB(t)

	// AI backend stub answering in the pinned reply shape
	aiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"response": "Banana: 105 cal. Reply Y to log it.",
		})
	}))
	defer aiServer.Close()

	phone := "+15555550777"
	user := &models.User{ID: uuid.New(), Name: "Flow Test", PhoneNumber: phone}
	require.NoError(t, db.DB.Create(user).Error)

	store := &memStore{entries: map[string]*conversation.Entry{}}
	extractor := service.NewExtractorService(service.NewAIChatClient(aiServer.URL))
	foodLog := service.NewFoodLogService(db.DB, false)
	gateway := service.NewGatewayService(store, extractor, foodLog, "+15555550000")

	ctx := context.Background()

	t.Run("describing food produces a confirmable draft", func(t *testing.T) {
		reply := gateway.HandleMessage(ctx, phone, "had a banana")
		assert.Contains(t, reply, "105")
		assert.Contains(t, reply, "Reply Y")

		entry := store.entries[phone]
		require.NotNil(t, entry)
		assert.Equal(t, conversation.PendingConfirmation, entry.State())
	})

	t.Run("confirming writes exactly one row", func(t *testing.T) {
		reply := gateway.HandleMessage(ctx, phone, "Y")
		assert.Contains(t, reply, "Logged Banana")

		var logs []models.FoodLog
		require.NoError(t, db.DB.Where("user_id = ?", user.ID).Find(&logs).Error)
		require.Len(t, logs, 1)
		assert.Equal(t, "Banana", logs[0].FoodName)
		assert.Equal(t, 105, logs[0].Calories)
		assert.Equal(t, "sms", logs[0].LoggedVia)
	})

	t.Run("the daily total reflects the committed entry", func(t *testing.T) {
		total, err := foodLog.DailyTotal(ctx, user.ID, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 105, total)
	})

	t.Run("a second confirmation does not duplicate the row", func(t *testing.T) {
		gateway.HandleMessage(ctx, phone, "Y")

		var count int64
		require.NoError(t, db.DB.Model(&models.FoodLog{}).Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown numbers cannot log", func(t *testing.T) {
		stranger := "+15555550888"
		gateway.HandleMessage(ctx, stranger, "had a banana")
		reply := gateway.HandleMessage(ctx, stranger, "Y")
		assert.Contains(t, reply, "couldn't log")

		var count int64
		require.NoError(t, db.DB.Model(&models.FoodLog{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}
