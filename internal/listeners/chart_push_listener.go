package listeners

import (
	"context"

	"go.uber.org/zap"

	"hr-system/internal/events"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/websocket"
)

// ChartBroadcaster - рассылка подключенным просмотрщикам органиграммы.
type ChartBroadcaster interface {
	Broadcast(messageType string, payload interface{}) error
}

// ChartPushListener сообщает открытым органиграммам, что иерархия изменилась.
type ChartPushListener struct {
	hub    ChartBroadcaster
	logger *zap.Logger
}

func NewChartPushListener(hub ChartBroadcaster, logger *zap.Logger) *ChartPushListener {
	return &ChartPushListener{hub: hub, logger: logger}
}

func (l *ChartPushListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.HierarchyReorganized, l.handleReorganized)
	bus.Subscribe(events.PersonTerminated, l.handleTerminated)
}

func (l *ChartPushListener) handleReorganized(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.HierarchyReorganizedEvent)
	if !ok {
		return nil
	}
	affected := []uint64{e.PersonID}
	affected = append(affected, e.ReassignedSubordinates...)
	if e.PreviousManagerID != nil {
		affected = append(affected, *e.PreviousManagerID)
	}
	return l.hub.Broadcast(websocket.MessageChartChanged, websocket.ChartChangedPayload{
		Reason:       e.Name(),
		PersonID:     e.PersonID,
		Date:         e.Date.Format("2006-01-02"),
		AffectedIDs:  affected,
		PositionMove: e.NewPositionID != nil || e.OldPositionID != nil,
	})
}

func (l *ChartPushListener) handleTerminated(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.PersonTerminatedEvent)
	if !ok {
		return nil
	}
	return l.hub.Broadcast(websocket.MessageChartChanged, websocket.ChartChangedPayload{
		Reason:      e.Name(),
		PersonID:    e.PersonID,
		Date:        e.Date.Format("2006-01-02"),
		AffectedIDs: []uint64{e.PersonID},
	})
}
