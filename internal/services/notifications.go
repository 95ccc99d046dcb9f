package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/doctors-portal/server/internal/models"
)

// NotificationService sends booking confirmations over SMS via Textbelt.
// An empty API key disables sending entirely.
type NotificationService struct {
	apiKey string
	log    zerolog.Logger
}

func NewNotificationService(apiKey string, log zerolog.Logger) *NotificationService {
	return &NotificationService{apiKey: apiKey, log: log}
}

// SendBookingConfirmationSMS confirms a freshly created booking. It never
// blocks the request: delivery happens in a goroutine and failures are only
// logged.
func (s *NotificationService) SendBookingConfirmationSMS(b *models.Booking) {
	if s.apiKey == "" || b.Phone == "" {
		return
	}

	smsBody := fmt.Sprintf(
		"Booking confirmed: %s on %s at %s.",
		b.Treatment,
		b.Date,
		b.Slot,
	)

	go s.sendSMS(b.Phone, smsBody)
}

func (s *NotificationService) sendSMS(phone, message string) {
	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})

	resp, err := http.Post("https://textbelt.com/text", "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		s.log.Error().Err(err).Str("phone", phone).Msg("textbelt request failed")
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		s.log.Error().Err(err).Str("phone", phone).Msg("textbelt response unreadable")
		return
	}

	if success, _ := result["success"].(bool); !success {
		reason, _ := result["error"].(string)
		s.log.Warn().Str("phone", phone).Str("reason", reason).Msg("sms not delivered")
		return
	}
	s.log.Info().Str("phone", phone).Msg("confirmation sms sent")
}
