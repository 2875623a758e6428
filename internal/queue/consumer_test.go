package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

func TestHandleMessage_AppendsLine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	c := &Consumer{LogDir: dir}

	b := model.Booking{
		ID: "b1", PropertyID: "p1", PropertyTitle: "Luxury Apartment near RPD Cross",
		UserID: "u1", OwnerID: "o1", Status: model.BookingPending,
	}
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, ev := range []BookingEvent{
		NewBookingEvent(KindRequested, b, at),
		NewBookingEvent(KindDecided, model.Booking{ID: "b1", PropertyID: "p1", Status: model.BookingApproved}, at),
	} {
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, c.handleMessage(body))
	}

	raw, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Booking requested")
	assert.Contains(t, lines[0], `property="Luxury Apartment near RPD Cross"`)
	assert.Contains(t, lines[0], "[2025-03-01T10:00:00Z]")
	assert.Contains(t, lines[1], "status=approved")
}

func TestHandleMessage_RejectsGarbage(t *testing.T) {
	c := &Consumer{LogDir: t.TempDir()}
	assert.Error(t, c.handleMessage([]byte("{")))
	assert.Error(t, c.handleMessage([]byte(`{"kind":"requested"}`)))
}
