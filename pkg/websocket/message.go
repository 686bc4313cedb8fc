package websocket

import "time"

// Типы сообщений, которые получает фронтенд.
const (
	MessageChartChanged = "orgchart.changed"
)

// Envelope - конверт сообщения: по Type фронтенд решает, что перерисовать.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// ChartChangedPayload - кого затронуло изменение и с какой даты.
type ChartChangedPayload struct {
	Reason       string   `json:"reason"`
	PersonID     uint64   `json:"personId"`
	Date         string   `json:"date"`
	AffectedIDs  []uint64 `json:"affectedIds"`
	PositionMove bool     `json:"positionMove"`
}
