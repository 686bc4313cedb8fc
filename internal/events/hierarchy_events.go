package events

import "time"

const (
	HierarchyReorganized = "hierarchy.reorganized"
	PersonTerminated     = "person.terminated"
	PermissionsChanged   = "access.permissions.changed"
)

// HierarchyReorganizedEvent - после коммита смены должности или руководителя.
type HierarchyReorganizedEvent struct {
	PersonID               uint64
	ActorID                uint64
	Date                   time.Time
	OldPositionID          *uint64
	NewPositionID          *uint64
	PreviousManagerID      *uint64
	ReassignedSubordinates []uint64
	ManagerChanged         bool
}

func (e HierarchyReorganizedEvent) Name() string {
	return HierarchyReorganized
}

type PersonTerminatedEvent struct {
	PersonID        uint64
	ActorID         uint64
	Date            time.Time
	Reason          string
	DisabledUserIDs []uint64
}

func (e PersonTerminatedEvent) Name() string {
	return PersonTerminated
}

// PermissionsChangedEvent - изменились роли или права; кеш этих пользователей устарел.
type PermissionsChangedEvent struct {
	UserIDs []uint64
}

func (e PermissionsChangedEvent) Name() string {
	return PermissionsChanged
}
