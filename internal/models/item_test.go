package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item := NewItem("חלב 3%", "", -5)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "חלב 3%", item.Name)
	assert.Equal(t, DefaultCategory, item.Category, "empty category falls back")
	assert.Zero(t, item.Price, "negative price coerces to 0")
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, StatusActive, item.Status)
	assert.False(t, item.CreatedAt.IsZero())
	assert.True(t, item.CreatedAt.Equal(item.UpdatedAt))

	other := NewItem("חלב 3%", "", 0)
	assert.NotEqual(t, item.ID, other.ID, "ids are never reused")
}

func TestSetStatus(t *testing.T) {
	item := NewItem("לחם", "מאפים", 9)
	before := item.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, item.SetStatus(StatusBought))
	assert.Equal(t, StatusBought, item.Status)
	assert.True(t, item.UpdatedAt.After(before), "updatedAt must advance on a status change")

	// Transitions are unrestricted: history restore moves items back.
	require.NoError(t, item.SetStatus(StatusActive))
	assert.Equal(t, StatusActive, item.Status)

	assert.Error(t, item.SetStatus(Status("EATEN")))
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"ACTIVE", "BOUGHT", "CANCELED"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	for _, invalid := range []string{"", "active", "DONE"} {
		_, err := ParseStatus(invalid)
		assert.Error(t, err, "status %q", invalid)
	}
}

// The JSON field names and status literals are the cross-device wire format;
// renaming any of them would break old local blobs and old share links.
func TestItemWireFormat(t *testing.T) {
	created := time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC)
	item := Item{
		ID:        "a1",
		Name:      "חלב",
		Category:  "מוצרי חלב",
		Price:     7.9,
		Quantity:  1,
		Status:    StatusActive,
		CreatedAt: created,
		UpdatedAt: created,
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"id", "name", "category", "price", "quantity", "status", "createdAt", "updatedAt"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "ACTIVE", raw["status"])
	assert.Equal(t, "2026-08-14T09:30:00Z", raw["createdAt"])

	// Timestamps written by the original client carry milliseconds.
	var parsed Item
	require.NoError(t, json.Unmarshal([]byte(
		`{"id":"x","name":"פיתות","category":"מאפים","price":12,"quantity":1,`+
			`"status":"BOUGHT","createdAt":"2026-08-01T10:00:00.000Z","updatedAt":"2026-08-01T10:05:00.000Z"}`), &parsed))
	assert.Equal(t, StatusBought, parsed.Status)
	assert.Equal(t, 2026, parsed.CreatedAt.Year())
}
