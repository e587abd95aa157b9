package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":    1,
		"title": "Main Account",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeAccount, payload)
	after := time.Now()

	assert.Equal(t, "account.created", evt.Type)
	assert.Equal(t, EntityTypeAccount, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": float64(42),
	}

	evt := NewEvent(EventTypeUpdated, EntityTypeBudget, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "budget.updated", decoded["type"])
	assert.Equal(t, "budget", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"id": float64(1)}

	tests := []struct {
		name     string
		evt      Event
		expected string
	}{
		{"created", Created(EntityTypeCurrency, payload), "currency.created"},
		{"updated", Updated(EntityTypeCurrency, payload), "currency.updated"},
		{"deleted", Deleted(EntityTypeOperation, payload), "operation.deleted"},
		{"restored", Restored(EntityTypeOperation, payload), "operation.restored"},
		{"repositioned", Repositioned(EntityTypeCategory, payload), "category.repositioned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.evt.Type)
			assert.Equal(t, payload, tt.evt.Payload)
		})
	}
}
