// Package notify sends WhatsApp text messages for appointment requests via
// the WhatsApp Cloud API. Sends are best-effort: each recipient gets an
// independent result and a failed send never affects the request that
// triggered it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the Graph API root for the Cloud API version in use.
const DefaultBaseURL = "https://graph.facebook.com/v20.0"

// Sender posts text messages through one WhatsApp business number.
type Sender struct {
	Token         string
	PhoneNumberID string
	BaseURL       string // defaults to DefaultBaseURL
	Client        *http.Client
}

// Result values per recipient.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Results carries the independent outcome of each send. The client
// confirmation and the admin alert are tried regardless of each other.
type Results struct {
	Client string `json:"client,omitempty"`
	Admin  string `json:"admin,omitempty"`
}

// Configured reports whether the sender has the credentials it needs.
func (s *Sender) Configured() bool {
	return s.Token != "" && s.PhoneNumberID != ""
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

// SendText delivers a single text message to one recipient. The first
// message to a user outside the 24h service window normally requires an
// approved template; this sender only does plain text.
func (s *Sender) SendText(ctx context.Context, to, text string) error {
	if !s.Configured() {
		return fmt.Errorf("whatsapp sender not configured")
	}
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	msg := textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               NormalizePhone(to),
		Type:             "text",
	}
	msg.Text.Body = text

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/%s/messages", base, s.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp send failed (%d): %s", resp.StatusCode, detail)
	}
	return nil
}

// NormalizePhone strips whitespace and the leading '+'; the Cloud API
// expects international numbers without it.
func NormalizePhone(raw string) string {
	cleaned := strings.Join(strings.Fields(raw), "")
	return strings.TrimPrefix(cleaned, "+")
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatDateFr renders a YYYY-MM-DD date as a long French date, e.g.
// "2026-09-14" -> "14 septembre 2026". Inputs that do not parse are
// returned unchanged.
func FormatDateFr(yyyyMmDd string) string {
	t, err := time.Parse("2006-01-02", yyyyMmDd)
	if err != nil {
		return yyyyMmDd
	}
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// ClientMessage is the confirmation text sent to the requesting client.
func ClientMessage(date string) string {
	return "Merci pour votre patience. ✅\n" +
		"Votre demande de consultation pour le " + FormatDateFr(date) + " a bien été reçue.\n" +
		"Nous reviendrons vers vous très bientôt pour confirmer l’horaire.\n\n" +
		"— Souli Studio"
}

// AdminMessage is the alert sent to the studio's admin number.
func AdminMessage(date, name, phone, typ string) string {
	msg := "📅 Nouvelle demande de rendez-vous à valider\n" +
		"• Date : " + FormatDateFr(date) + "\n" +
		"• Nom : " + name + "\n" +
		"• Téléphone : " + phone
	if typ != "" {
		msg += "\n• Type : " + typ
	}
	return msg
}

// NotifyAppointment sends the client confirmation and the admin alert for
// one appointment request. Each send is attempted independently; a failure
// is recorded in the result and logged by the caller, never propagated.
func (s *Sender) NotifyAppointment(ctx context.Context, date, name, phone, typ, adminPhone string, logf func(format string, args ...any)) Results {
	var res Results

	if err := s.SendText(ctx, phone, ClientMessage(date)); err != nil {
		logf("whatsapp: client message failed: %v", err)
		res.Client = ResultFailed
	} else {
		res.Client = ResultSent
	}

	if adminPhone == "" {
		res.Admin = ResultSkipped
		return res
	}
	if err := s.SendText(ctx, adminPhone, AdminMessage(date, name, phone, typ)); err != nil {
		logf("whatsapp: admin message failed: %v", err)
		res.Admin = ResultFailed
	} else {
		res.Admin = ResultSent
	}
	return res
}
