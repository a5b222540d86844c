// Package queue defines the appointment notification pipeline: the event
// payload, the publisher used by the intake handler, and the background
// consumer that turns events into WhatsApp messages.
package queue

// AppointmentRequestedEvent is published when a new appointment request
// has been stored. It carries everything the notification worker needs so
// the worker never has to query the primary database.
type AppointmentRequestedEvent struct {
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time,omitempty"`
	ClientName    string `json:"client_name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone"`
	Type          string `json:"type,omitempty"`
	RequestedAt   string `json:"requested_at"`
}
