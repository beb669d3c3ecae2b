package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"seaview-backend/internal/domain"
)

// maxResponseBody bounds how much of a tier's response is read
const maxResponseBody = 1 << 20

// Strategy is one delivery tier.
type Strategy interface {
	Name() string
	Deliver(ctx context.Context, inq domain.Inquiry) (domain.DeliveryReceipt, error)
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func postJSON(ctx context.Context, client HTTPDoer, url string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return client.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
	resp.Body.Close()
}

func isOK(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// RelayStrategy posts the inquiry to the site's own mail relay.
type RelayStrategy struct {
	url    string
	client HTTPDoer
}

func NewRelayStrategy(url string, client HTTPDoer) *RelayStrategy {
	return &RelayStrategy{url: url, client: client}
}

func (s *RelayStrategy) Name() string { return "relay" }

func (s *RelayStrategy) Deliver(ctx context.Context, inq domain.Inquiry) (domain.DeliveryReceipt, error) {
	resp, err := postJSON(ctx, s.client, s.url, inq)
	if err != nil {
		return domain.DeliveryReceipt{}, &TransportError{Tier: s.Name(), Err: err}
	}
	defer drain(resp)

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&result)

	if !isOK(resp) {
		msg := result.Error
		if msg == "" {
			msg = "server error"
		}
		return domain.DeliveryReceipt{}, &TransportError{Tier: s.Name(), StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}
	if decodeErr != nil {
		return domain.DeliveryReceipt{}, &TransportError{Tier: s.Name(), StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if result.Error != "" {
		return domain.DeliveryReceipt{}, &TransportError{Tier: s.Name(), StatusCode: resp.StatusCode, Err: errors.New(result.Error)}
	}

	return domain.DeliveryReceipt{Tier: s.Name(), Message: result.Message}, nil
}

// FormspreeStrategy posts the inquiry to a Formspree form.
type FormspreeStrategy struct {
	url    string
	client HTTPDoer
}

// NewFormspreeStrategy targets baseURL/formID, e.g. https://formspree.io/f/xyz.
func NewFormspreeStrategy(baseURL, formID string, client HTTPDoer) *FormspreeStrategy {
	return &FormspreeStrategy{url: baseURL + "/" + formID, client: client}
}

func (s *FormspreeStrategy) Name() string { return "formspree" }

func (s *FormspreeStrategy) Deliver(ctx context.Context, inq domain.Inquiry) (domain.DeliveryReceipt, error) {
	payload := map[string]string{
		"name":     inq.Name,
		"email":    inq.Email,
		"phone":    inq.Phone,
		"subject":  inq.Subject,
		"message":  inq.Message,
		"_replyto": inq.Email,
		"_subject": "Seaview Contact: " + inq.Subject,
	}

	resp, err := postJSON(ctx, s.client, s.url, payload)
	if err != nil {
		return domain.DeliveryReceipt{}, &TransportError{Tier: s.Name(), Err: err}
	}
	defer drain(resp)

	if !isOK(resp) {
		return domain.DeliveryReceipt{}, &TransportError{Tier: s.Name(), StatusCode: resp.StatusCode, Err: errors.New("rejected")}
	}
	return domain.DeliveryReceipt{Tier: s.Name(), Message: "Message sent successfully via Formspree!"}, nil
}

// Web3FormsStrategy posts the inquiry to Web3Forms.
type Web3FormsStrategy struct {
	url       string
	accessKey string
	recipient string
	client    HTTPDoer
}

func NewWeb3FormsStrategy(url, accessKey, recipient string, client HTTPDoer) *Web3FormsStrategy {
	return &Web3FormsStrategy{url: url, accessKey: accessKey, recipient: recipient, client: client}
}

func (s *Web3FormsStrategy) Name() string { return "web3forms" }

func (s *Web3FormsStrategy) Deliver(ctx context.Context, inq domain.Inquiry) (domain.DeliveryReceipt, error) {
	payload := map[string]string{
		"access_key": s.accessKey,
		"name":       inq.Name,
		"email":      inq.Email,
		"phone":      inq.Phone,
		"subject":    "Seaview Contact: " + inq.Subject,
		"message":    inq.Message,
		"to":         s.recipient,
	}

	resp, err := postJSON(ctx, s.client, s.url, payload)
	if err != nil {
		return domain.DeliveryReceipt{}, &TransportError{Tier: s.Name(), Err: err}
	}
	defer drain(resp)

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&result); err != nil {
		return domain.DeliveryReceipt{}, &TransportError{Tier: s.Name(), StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "not accepted"
		}
		return domain.DeliveryReceipt{}, &TransportError{Tier: s.Name(), StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}
	return domain.DeliveryReceipt{Tier: s.Name(), Message: "Message sent successfully!"}, nil
}
