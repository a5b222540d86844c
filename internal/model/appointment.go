package model

import "time"

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

// Appointment mirrors the `appointments` table. Only the intake path is
// handled by this backend; dashboards operate on the same rows elsewhere.
type Appointment struct {
	ID         string // appointments.id (uuid)
	Date       string // appointments.date (YYYY-MM-DD)
	Time       *string
	ClientName string
	Email      *string
	Phone      string
	Status     string
	Type       string
	CreatedAt  time.Time
}
