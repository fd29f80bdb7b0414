// Package queue defines message payloads exchanged over the message broker.
package queue

// PeriodClosedEvent is published when a seating period is closed.
// It carries enough information for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type PeriodClosedEvent struct {
    PeriodID        uint64 `json:"period_id"`
    ClassID         uint64 `json:"class_id"`
    PeriodName      string `json:"period_name"`
    StartDate       string `json:"start_date"`
    EndDate         string `json:"end_date"`
    AssignmentCount int    `json:"assignment_count"`
    ClosedAt        string `json:"closed_at"`
}
