package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securecomm/backend/models"
)

func msgAt(id string, ts time.Time) models.CommunicationMessage {
	return models.CommunicationMessage{
		ID:          id,
		From:        "v1",
		To:          "n1",
		Type:        models.CommV2I,
		MessageType: models.MessageTraffic,
		Timestamp:   ts,
	}
}

func batchAt(prefix string, n int, newest time.Time) []models.CommunicationMessage {
	// most-recent-first, one second apart
	out := make([]models.CommunicationMessage, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, msgAt(fmt.Sprintf("%s%d", prefix, i), newest.Add(-time.Duration(i)*time.Second)))
	}
	return out
}

func TestAppendMessagesTruncatesToCap(t *testing.T) {
	s := New(20)
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	s.AppendMessages(batchAt("old", 20, base))
	require.Len(t, s.Messages(), 20)

	s.AppendMessages(batchAt("new", 5, base.Add(time.Minute)))

	got := s.Messages()
	require.Len(t, got, 20)

	// the 5 newest plus the 15 most recent of the previous 20
	for i := 0; i < 5; i++ {
		assert.Equal(t, fmt.Sprintf("new%d", i), got[i].ID)
	}
	for i := 0; i < 15; i++ {
		assert.Equal(t, fmt.Sprintf("old%d", i), got[5+i].ID)
	}
}

func TestAppendMessagesNeverExceedsCap(t *testing.T) {
	s := New(10)
	base := time.Now()
	for round := 0; round < 8; round++ {
		s.AppendMessages(batchAt(fmt.Sprintf("r%d-", round), 7, base.Add(time.Duration(round)*time.Minute)))
		assert.LessOrEqual(t, len(s.Messages()), 10)
	}
}

func TestAppendMessagesKeepsMostRecent(t *testing.T) {
	s := New(5)
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// an out-of-order batch still yields a most-recent-first log
	s.AppendMessages([]models.CommunicationMessage{
		msgAt("a", base.Add(2 * time.Second)),
		msgAt("b", base.Add(9 * time.Second)),
		msgAt("c", base.Add(5 * time.Second)),
	})
	s.AppendMessages([]models.CommunicationMessage{
		msgAt("d", base.Add(7 * time.Second)),
		msgAt("e", base.Add(1 * time.Second)),
		msgAt("f", base.Add(8 * time.Second)),
	})

	got := s.Messages()
	require.Len(t, got, 5)
	ids := make([]string, len(got))
	for i, m := range got {
		ids[i] = m.ID
		if i > 0 {
			assert.False(t, got[i].Timestamp.After(got[i-1].Timestamp), "log must be most-recent-first")
		}
	}
	assert.Equal(t, []string{"b", "f", "d", "c", "a"}, ids) // "e" is the oldest and is dropped
}

func TestReplaceVehiclesIdempotent(t *testing.T) {
	s := New(0)
	fleet := []models.Vehicle{
		{ID: "v1", Status: models.VehicleOnline, Speed: 42, ConnectedNodes: []string{"n1"}},
		{ID: "v2", Status: models.VehicleOffline},
	}

	s.ReplaceVehicles(fleet)
	first := s.Vehicles()
	s.ReplaceVehicles(fleet)
	second := s.Vehicles()

	assert.Equal(t, first, second)
}

func TestReplaceVehiclesDropsStaleIDs(t *testing.T) {
	s := New(0)
	s.ReplaceVehicles([]models.Vehicle{{ID: "v1"}, {ID: "v2"}})
	s.ReplaceVehicles([]models.Vehicle{{ID: "v2"}})

	got := s.Vehicles()
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].ID)
}

func TestReplaceVehiclesNormalizesSpeed(t *testing.T) {
	s := New(0)
	s.ReplaceVehicles([]models.Vehicle{
		{ID: "v1", Status: models.VehicleOffline, Speed: 55},
		{ID: "v2", Status: models.VehicleMaintenance, Speed: 10},
		{ID: "v3", Status: models.VehicleOnline, Speed: -4},
		{ID: "v4", Status: models.VehicleOnline, Speed: 61},
	})

	got := s.Vehicles()
	assert.Equal(t, 0, got[0].Speed)
	assert.Equal(t, 0, got[1].Speed)
	assert.Equal(t, 0, got[2].Speed)
	assert.Equal(t, 61, got[3].Speed)
}

func TestLastCommunicationNeverMovesBackwards(t *testing.T) {
	s := New(0)
	newer := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	s.ReplaceVehicles([]models.Vehicle{{ID: "v1", Status: models.VehicleOnline, LastCommunication: newer}})
	s.ReplaceVehicles([]models.Vehicle{{ID: "v1", Status: models.VehicleOnline, LastCommunication: older}})
	assert.Equal(t, newer, s.Vehicles()[0].LastCommunication)

	// a genuinely newer snapshot does advance it
	newest := newer.Add(time.Minute)
	s.ReplaceVehicles([]models.Vehicle{{ID: "v1", Status: models.VehicleOnline, LastCommunication: newest}})
	assert.Equal(t, newest, s.Vehicles()[0].LastCommunication)
}

func TestResolveAlert(t *testing.T) {
	s := New(0)
	s.ReplaceAlerts([]models.SecurityAlert{
		{ID: "a1", Level: models.AlertHigh, Resolved: false},
		{ID: "a2", Level: models.AlertLow, Resolved: true},
	})

	assert.True(t, s.ResolveAlert("a1"))
	assert.True(t, s.Alerts()[0].Resolved)

	// one-way: resolving again keeps it resolved
	assert.True(t, s.ResolveAlert("a2"))
	assert.True(t, s.Alerts()[1].Resolved)

	assert.False(t, s.ResolveAlert("missing"))
}

func TestReadersObserveWholeCollections(t *testing.T) {
	s := New(50)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			s.ReplaceVehicles([]models.Vehicle{{ID: "v1"}, {ID: "v2"}, {ID: "v3"}})
			s.AppendMessages(batchAt(fmt.Sprintf("m%d-", i), 3, time.Now()))
		}
	}()

	for i := 0; i < 200; i++ {
		// a reader sees either the empty pre-merge state or all three
		n := len(s.Vehicles())
		assert.True(t, n == 0 || n == 3, "observed partial vehicle collection of %d", n)
	}
	close(stop)
	wg.Wait()
}
