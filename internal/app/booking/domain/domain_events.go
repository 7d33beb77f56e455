package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Event kinds published downstream.
const (
	EventBookingRequested = "BookingRequested"
	EventBookingConfirmed = "BookingConfirmed"
	EventBookingCancelled = "BookingCancelled"
	EventBookingCompleted = "BookingCompleted"
	EventSessionConsumed  = "SessionConsumed"
	EventSessionRefunded  = "SessionRefunded"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	Header() EventHeader
}

// EventHeader carries the identifiers every downstream consumer needs.
type EventHeader struct {
	BookingID  string
	PurchaseID string
	CoachID    string
	UserID     string
	OccurredAt time.Time
}

// BookingRequestedEvent is emitted when a booking is admitted as pending.
type BookingRequestedEvent struct {
	EventHeader `json:"-"`
	Date        civil.Date `json:"date"`
	StartMinute int        `json:"start_minute"`
	EndMinute   int        `json:"end_minute"`
}

func (e *BookingRequestedEvent) EventType() string   { return EventBookingRequested }
func (e *BookingRequestedEvent) AggregateID() string { return e.BookingID }
func (e *BookingRequestedEvent) Header() EventHeader { return e.EventHeader }

// BookingConfirmedEvent is emitted when the coach confirms a pending booking.
type BookingConfirmedEvent struct {
	EventHeader `json:"-"`
	Date        civil.Date `json:"date"`
	StartMinute int        `json:"start_minute"`
	EndMinute   int        `json:"end_minute"`
}

func (e *BookingConfirmedEvent) EventType() string   { return EventBookingConfirmed }
func (e *BookingConfirmedEvent) AggregateID() string { return e.BookingID }
func (e *BookingConfirmedEvent) Header() EventHeader { return e.EventHeader }

// BookingCancelledEvent is emitted when a booking is cancelled.
type BookingCancelledEvent struct {
	EventHeader    `json:"-"`
	PreviousStatus string `json:"previous_status"`
	CancelledBy    string `json:"cancelled_by"`
}

func (e *BookingCancelledEvent) EventType() string   { return EventBookingCancelled }
func (e *BookingCancelledEvent) AggregateID() string { return e.BookingID }
func (e *BookingCancelledEvent) Header() EventHeader { return e.EventHeader }

// BookingCompletedEvent is emitted when a confirmed booking is completed.
type BookingCompletedEvent struct {
	EventHeader `json:"-"`
}

func (e *BookingCompletedEvent) EventType() string   { return EventBookingCompleted }
func (e *BookingCompletedEvent) AggregateID() string { return e.BookingID }
func (e *BookingCompletedEvent) Header() EventHeader { return e.EventHeader }

// SessionConsumedEvent is emitted when sessions are drawn from a purchase.
type SessionConsumedEvent struct {
	EventHeader  `json:"-"`
	Count        int64 `json:"count"`
	SessionsUsed int64 `json:"sessions_used"`
	SessionCount int64 `json:"session_count"`
}

func (e *SessionConsumedEvent) EventType() string   { return EventSessionConsumed }
func (e *SessionConsumedEvent) AggregateID() string { return e.PurchaseID }
func (e *SessionConsumedEvent) Header() EventHeader { return e.EventHeader }

// SessionRefundedEvent is emitted when sessions are returned to a purchase.
type SessionRefundedEvent struct {
	EventHeader  `json:"-"`
	Count        int64 `json:"count"`
	SessionsUsed int64 `json:"sessions_used"`
}

func (e *SessionRefundedEvent) EventType() string   { return EventSessionRefunded }
func (e *SessionRefundedEvent) AggregateID() string { return e.PurchaseID }
func (e *SessionRefundedEvent) Header() EventHeader { return e.EventHeader }
