package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hr-system/pkg/constants"
	"hr-system/pkg/service"
	appwebsocket "hr-system/pkg/websocket"
)

type stubPermissionProvider map[uint64][]string

func (s stubPermissionProvider) GetUserPermissions(_ context.Context, userID uint64) ([]string, error) {
	return s[userID], nil
}

func newStreamServer(t *testing.T) (*httptest.Server, *appwebsocket.Hub, service.JWTService) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := appwebsocket.NewHub(zap.NewNop())
	go hub.Run(ctx)

	jwtSvc := service.NewJWTService("secreto-de-prueba", time.Hour, 24*time.Hour, zap.NewNop())
	ctrl := NewOrgChartStreamController(hub, jwtSvc, stubPermissionProvider{
		1: {constants.PermOrgChartView},
		2: {constants.PermPersonsView},
	}, nil, zap.NewNop())

	e := echo.New()
	e.GET("/ws/orgchart", ctrl.ServeWs)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, hub, jwtSvc
}

func TestOrgChartStreamRejectsBadTokens(t *testing.T) {
	srv, _, jwtSvc := newStreamServer(t)
	access, refresh, err := jwtSvc.GenerateTokens(2)
	require.NoError(t, err)

	cases := []struct {
		query  string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"?token=xyz", http.StatusUnauthorized},
		{"?token=" + refresh, http.StatusUnauthorized},
		{"?token=" + access, http.StatusForbidden},
	}
	for _, tc := range cases {
		resp, err := http.Get(srv.URL + "/ws/orgchart" + tc.query)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tc.status, resp.StatusCode, tc.query)
	}
}

func TestOrgChartStreamDeliversBroadcast(t *testing.T) {
	srv, hub, jwtSvc := newStreamServer(t)
	access, _, err := jwtSvc.GenerateTokens(1)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orgchart?token=" + access
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Broadcast(appwebsocket.MessageChartChanged, appwebsocket.ChartChangedPayload{PersonID: 5}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope appwebsocket.Envelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, appwebsocket.MessageChartChanged, envelope.Type)
}
