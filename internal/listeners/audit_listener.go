package listeners

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hr-system/internal/events"
	"hr-system/pkg/eventbus"
)

// AuditListener пишет кадровые изменения в отдельный журнал.
type AuditListener struct {
	logger *zap.Logger
}

func NewAuditListener(logger *zap.Logger) *AuditListener {
	return &AuditListener{logger: logger.Named("audit")}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.HierarchyReorganized, l.handleReorganized)
	bus.Subscribe(events.PersonTerminated, l.handleTerminated)
	l.logger.Info("AuditListener подписан на кадровые события")
}

func (l *AuditListener) handleReorganized(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.HierarchyReorganizedEvent)
	if !ok {
		return nil
	}
	fields := []zap.Field{
		zap.String("auditID", uuid.NewString()),
		zap.String("event", e.Name()),
		zap.Uint64("personID", e.PersonID),
		zap.Uint64("actorID", e.ActorID),
		zap.String("date", e.Date.Format("2006-01-02")),
		zap.Uint64s("reassigned", e.ReassignedSubordinates),
		zap.Bool("managerChanged", e.ManagerChanged),
	}
	if e.OldPositionID != nil {
		fields = append(fields, zap.Uint64("oldPositionID", *e.OldPositionID))
	}
	if e.NewPositionID != nil {
		fields = append(fields, zap.Uint64("newPositionID", *e.NewPositionID))
	}
	if e.PreviousManagerID != nil {
		fields = append(fields, zap.Uint64("previousManagerID", *e.PreviousManagerID))
	}
	l.logger.Info("Реорганизация иерархии", fields...)
	return nil
}

func (l *AuditListener) handleTerminated(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.PersonTerminatedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("Сотрудник уволен",
		zap.String("auditID", uuid.NewString()),
		zap.String("event", e.Name()),
		zap.Uint64("personID", e.PersonID),
		zap.Uint64("actorID", e.ActorID),
		zap.String("date", e.Date.Format("2006-01-02")),
		zap.String("reason", e.Reason),
		zap.Uint64s("disabledUsers", e.DisabledUserIDs),
	)
	return nil
}
