package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/6Yass9/souli-studio-server/internal/model"
)

type AppointmentRepo struct{ DB *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{DB: db} }

// Create inserts a pending appointment request and returns its id.
func (r *AppointmentRepo) Create(ctx context.Context, a model.Appointment) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO appointments (id, date, time, client_name, email, phone, status, type) VALUES (?,?,?,?,?,?,'pending',?)",
		id, a.Date, a.Time, a.ClientName, a.Email, a.Phone, a.Type)
	if err != nil {
		return "", err
	}
	return id, nil
}
