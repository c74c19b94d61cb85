package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aayushprsingh/Bhooyam-Dashboard/services"
)

func TestHandleWebSocketPushesInserts(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	// One subscriber belongs to the test harness.
	require.Eventually(t, func() bool { return s.hub.Count() == 2 }, time.Second, 5*time.Millisecond)

	resp, err := http.Post(srv.URL+"/data", "application/json",
		strings.NewReader(`{"soilSensors":["700"],"dhtSensors":[],"lightSensor":"Not working"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev services.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "newSensorData", ev.Event)
	assert.Equal(t, []string{"700"}, ev.Data.SoilSensors)
	assert.Equal(t, "Not working", ev.Data.LightSensor)
}

func TestHandleWebSocketUnsubscribesOnClose(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.hub.Count() == 2 }, time.Second, 5*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return s.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
}
