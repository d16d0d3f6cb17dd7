package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"mindease/models"

	"go.uber.org/zap"
)

// ClinicClient talks HTTP JSON to the clinic system-of-record. Timeouts are
// the caller's responsibility: every request uses the incoming context, and a
// deadline hit is reported as a network-kind error like any other transport
// failure.
type ClinicClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// NewClinicClient creates a clinic client for the given base URL.
func NewClinicClient(baseURL, apiKey string, logger *zap.Logger) *ClinicClient {
	return &ClinicClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
		logger:  logger,
	}
}

// envelope is the uniform response wrapper the clinic backend uses.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *ClinicClient) ListProviders(ctx context.Context) ([]models.ClinicProvider, error) {
	var providers []models.ClinicProvider
	if err := c.get(ctx, "/api/doctor/list", &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// CreateBooking posts the booking as JSON. If the clinic explicitly reports a
// body-parse complaint, the request is retried exactly once form-encoded;
// any other rejection is returned classified as-is.
func (c *ClinicClient) CreateBooking(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	var result BookingResult
	err := c.postJSON(ctx, "/api/user/book-appointment", req, &result)
	if err == nil {
		return &result, nil
	}
	if !IsEncodingErr(err) {
		return nil, err
	}
	c.logger.Warn("clinic rejected booking encoding, retrying form-encoded",
		zap.String("providerId", req.ProviderID))
	if err := c.postForm(ctx, "/api/user/book-appointment", bookingForm(req), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *ClinicClient) CreatePaymentOrder(ctx context.Context, reservationRef string) (*Order, error) {
	var order Order
	payload := map[string]string{"appointmentId": reservationRef}
	if err := c.postJSON(ctx, "/api/user/payment-order", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *ClinicClient) VerifyPayment(ctx context.Context, orderID, txnID, signature string) (bool, error) {
	payload := map[string]string{
		"orderId":   orderID,
		"paymentId": txnID,
		"signature": signature,
	}
	var out struct {
		Verified bool `json:"verified"`
	}
	if err := c.postJSON(ctx, "/api/user/verify-payment", payload, &out); err != nil {
		return false, err
	}
	return out.Verified, nil
}

func (c *ClinicClient) CancelBooking(ctx context.Context, reservationRef string) error {
	payload := map[string]string{"appointmentId": reservationRef}
	return c.postJSON(ctx, "/api/user/cancel-appointment", payload, nil)
}

func (c *ClinicClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build clinic request: %w", err)
	}
	return c.do(req, out)
}

func (c *ClinicClient) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode clinic payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build clinic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *ClinicClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build clinic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

// do executes the request and unwraps the clinic's response envelope. A
// transport failure or an unreadable body is a network-kind error; a
// success=false envelope is classified by its message.
func (c *ClinicClient) do(req *http.Request, out any) error {
	req.Header.Set("token", c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &RequestError{Kind: KindNetwork, Message: fmt.Sprintf("unreadable clinic response: %v", err)}
	}
	if !env.Success {
		return ClassifyRejection(env.Message)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &RequestError{Kind: KindNetwork, Message: fmt.Sprintf("unreadable clinic payload: %v", err)}
	}
	return nil
}

func bookingForm(req BookingRequest) url.Values {
	form := url.Values{}
	form.Set("docId", req.ProviderID)
	form.Set("userId", req.UserID)
	form.Set("slotDate", req.SlotDate)
	form.Set("slotTime", req.SlotTime)
	form.Set("reasonForVisit", req.Visit.ReasonForVisit)
	form.Set("sessionType", req.Visit.SessionType)
	if req.Visit.CommunicationMethod != "" {
		form.Set("communicationMethod", req.Visit.CommunicationMethod)
	}
	form.Set("consentGiven", fmt.Sprintf("%t", req.Visit.ConsentGiven))
	return form
}
