package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

func TestHubFanOut(t *testing.T) {
	hub := NewHub(4)
	_, a := hub.Subscribe()
	_, b := hub.Subscribe()
	require.Equal(t, 2, hub.Count())

	n := hub.Publish(models.SensorReading{ID: 7})
	assert.Equal(t, 2, n)

	for _, ch := range []<-chan Event{a, b} {
		ev := <-ch
		assert.Equal(t, EventNewSensorData, ev.Event)
		assert.Equal(t, uint(7), ev.Data.ID)
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub(1)
	_, slow := hub.Subscribe()

	assert.Equal(t, 1, hub.Publish(models.SensorReading{ID: 1}))
	assert.Equal(t, 0, hub.Publish(models.SensorReading{ID: 2}), "publish must not block on a full subscriber")

	ev := <-slow
	assert.Equal(t, uint(1), ev.Data.ID)
	select {
	case ev := <-slow:
		t.Fatalf("unexpected event %d", ev.Data.ID)
	default:
	}
}

func TestHubNoReplay(t *testing.T) {
	hub := NewHub(4)
	assert.Equal(t, 0, hub.Publish(models.SensorReading{ID: 1}))

	_, late := hub.Subscribe()
	select {
	case <-late:
		t.Fatal("late subscriber received an earlier event")
	default:
	}
}

func TestHubUnsubscribeAndClose(t *testing.T) {
	hub := NewHub(1)
	id, ch := hub.Subscribe()

	hub.Unsubscribe(id)
	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, hub.Count())
	hub.Unsubscribe(id)

	_, other := hub.Subscribe()
	hub.Close()
	_, ok = <-other
	assert.False(t, ok)

	_, afterClose := hub.Subscribe()
	_, ok = <-afterClose
	assert.False(t, ok)
	assert.Zero(t, hub.Publish(models.SensorReading{}))
}

func TestEventJSON(t *testing.T) {
	b, err := json.Marshal(Event{Event: EventNewSensorData, Data: models.SensorReading{ID: 3, LightSensor: "9"}})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "newSensorData", decoded["event"])
	data := decoded["data"].(map[string]any)
	assert.Equal(t, "9", data["lightSensor"])
}
