package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/6Yass9/souli-studio-server/internal/config"
	"github.com/6Yass9/souli-studio-server/internal/model"
	"github.com/6Yass9/souli-studio-server/internal/notify"
	"github.com/6Yass9/souli-studio-server/internal/queue"
	"github.com/6Yass9/souli-studio-server/internal/repository"
)

// AppointmentHandler handles appointment-request intake and the direct
// notification endpoint. Notification delivery is best-effort in both
// cases: the appointment row is the source of truth and a failed WhatsApp
// send never fails the request.
type AppointmentHandler struct {
	Cfg          config.Config
	Appointments *repository.AppointmentRepo
	Sender       *notify.Sender
}

func NewAppointmentHandler(cfg config.Config, a *repository.AppointmentRepo, s *notify.Sender) *AppointmentHandler {
	return &AppointmentHandler{Cfg: cfg, Appointments: a, Sender: s}
}

type appointmentReq struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Time  string `json:"time"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
}

func (r *appointmentReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Date = strings.TrimSpace(r.Date)
	if r.Date == "" || r.Name == "" || r.Phone == "" {
		return "Missing required fields"
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return "Invalid date format"
	}
	return ""
}

// Create stores a pending appointment request and publishes the
// notification event. The publish runs detached from the request with its
// own timeout so a slow or down broker never delays the response.
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req appointmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := model.Appointment{
		Date:       req.Date,
		ClientName: req.Name,
		Phone:      req.Phone,
		Type:       req.Type,
	}
	if req.Time != "" {
		a.Time = &req.Time
	}
	if req.Email != "" {
		a.Email = &req.Email
	}
	id, err := h.Appointments.Create(ctx, a)
	if err != nil {
		log.Printf("appointments: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}

	if h.Cfg.AMQPURL != "" {
		event := queue.AppointmentRequestedEvent{
			AppointmentID: id,
			Date:          req.Date,
			Time:          req.Time,
			ClientName:    req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Type:          req.Type,
			RequestedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pubCancel()
			_ = queue.PublishAppointmentRequested(pubCtx, h.Cfg.AMQPURL, event)
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id, "status": model.AppointmentPending})
}

type notifyReq struct {
	Date  string `json:"date"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
}

// Notify sends the appointment messages synchronously, for callers that
// bypass the queue. Per-recipient results are reported independently.
func (h *AppointmentHandler) Notify(c echo.Context) error {
	var req notifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}
	if req.Date == "" || req.Name == "" || req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 20*time.Second)
	defer cancel()

	results := h.Sender.NotifyAppointment(ctx, req.Date, req.Name, req.Phone, req.Type, h.Cfg.WhatsAppAdminPhone, log.Printf)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "results": results})
}
