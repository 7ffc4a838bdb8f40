package bookingpolicy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-appointments/internal/platform/httpclient"
)

var (
	ErrPolicyNotConfigured = errors.New("booking-policy client not configured")
	ErrPolicyUpstream      = errors.New("booking-policy upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// BookingPolicyResponse es deliberadamente simple.
// Cuando el servicio de políticas esté listo, se adapta al contrato real.
type BookingPolicyResponse struct {
	// "pending" o "confirmed"
	InitialStatus string `json:"initial_status"`
}

// GetBookingPolicy trae la política de reserva aplicable a un dueño.
func (c *Client) GetBookingPolicy(ctx context.Context, ownerID string) (BookingPolicyResponse, error) {
	if !c.IsConfigured() {
		return BookingPolicyResponse{}, ErrPolicyNotConfigured
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return BookingPolicyResponse{}, errors.New("ownerID required")
	}

	var out BookingPolicyResponse
	err := c.http.DoJSON(ctx, http.MethodGet,
		"/v1/booking-policy?owner_id="+ownerID,
		map[string]string{c.apiKeyHeader: c.apiKey},
		nil,
		&out,
	)
	if err != nil {
		return BookingPolicyResponse{}, fmt.Errorf("%w: %v", ErrPolicyUpstream, err)
	}
	return out, nil
}
