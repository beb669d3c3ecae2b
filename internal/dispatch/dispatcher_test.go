package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"seaview-backend/config"
	"seaview-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInquiry() domain.Inquiry {
	return domain.Inquiry{
		Name:    "Mere Tane",
		Email:   "mere@example.co.nz",
		Subject: "admission",
		Message: "I would like to arrange a visit & a tour.",
	}
}

type hitCounter struct {
	mu   sync.Mutex
	hits map[string]int
	body map[string]map[string]interface{}
}

func (h *hitCounter) record(tier string, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hits == nil {
		h.hits = map[string]int{}
		h.body = map[string]map[string]interface{}{}
	}
	h.hits[tier]++
	var payload map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&payload)
	h.body[tier] = payload
}

func (h *hitCounter) count(tier string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[tier]
}

func (h *hitCounter) payload(tier string) map[string]interface{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.body[tier]
}

// newTierServer answers every tier with the given status and body.
func newTierServer(t *testing.T, hits *hitCounter, tier string, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.record(tier, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type recordingOpener struct {
	uris []string
	err  error
}

func (o *recordingOpener) Open(_ context.Context, uri string) error {
	o.uris = append(o.uris, uri)
	return o.err
}

func newChain(relay, formspree, web3 *httptest.Server, opener Opener) *Dispatcher {
	return NewFromConfig(&config.Config{
		RelayURL:           relay.URL + "/contact",
		FormspreeURL:       formspree.URL + "/f",
		FormspreeFormID:    "xyzabc",
		Web3FormsURL:       web3.URL + "/submit",
		Web3FormsAccessKey: "test-access-key",
		ContactEmailTo:     "admin@seaviewhome.co.nz",
		DispatchTimeout:    5 * time.Second,
	}, opener, nil)
}

func TestDispatch_RelaySuccessStopsChain(t *testing.T) {
	hits := &hitCounter{}
	relay := newTierServer(t, hits, "relay", http.StatusOK, `{"success":true,"message":"Your message has been sent successfully. We will get back to you soon!"}`)
	formspree := newTierServer(t, hits, "formspree", http.StatusOK, `{}`)
	web3 := newTierServer(t, hits, "web3forms", http.StatusOK, `{"success":true}`)
	opener := &recordingOpener{}

	receipt, err := newChain(relay, formspree, web3, opener).Dispatch(context.Background(), testInquiry())

	require.NoError(t, err)
	assert.Equal(t, "relay", receipt.Tier)
	assert.Equal(t, 1, hits.count("relay"))
	assert.Zero(t, hits.count("formspree"))
	assert.Zero(t, hits.count("web3forms"))
	assert.Empty(t, opener.uris)
	assert.Equal(t, "mere@example.co.nz", hits.payload("relay")["email"])
}

func TestDispatch_FallsThroughToFormspree(t *testing.T) {
	hits := &hitCounter{}
	relay := newTierServer(t, hits, "relay", http.StatusInternalServerError, `{"error":"Failed to send email."}`)
	formspree := newTierServer(t, hits, "formspree", http.StatusOK, `{"ok":true}`)
	web3 := newTierServer(t, hits, "web3forms", http.StatusOK, `{"success":true}`)

	receipt, err := newChain(relay, formspree, web3, &recordingOpener{}).Dispatch(context.Background(), testInquiry())

	require.NoError(t, err)
	assert.Equal(t, "formspree", receipt.Tier)
	assert.Equal(t, 1, hits.count("relay"), "no retries within a tier")
	assert.Zero(t, hits.count("web3forms"))
	assert.Equal(t, "mere@example.co.nz", hits.payload("formspree")["_replyto"])
	assert.Equal(t, "Seaview Contact: admission", hits.payload("formspree")["_subject"])
}

func TestDispatch_RelayErrorFieldIsFailure(t *testing.T) {
	hits := &hitCounter{}
	relay := newTierServer(t, hits, "relay", http.StatusOK, `{"error":"Field 'name' is required"}`)
	formspree := newTierServer(t, hits, "formspree", http.StatusBadRequest, `{}`)
	web3 := newTierServer(t, hits, "web3forms", http.StatusOK, `{"success":true}`)

	receipt, err := newChain(relay, formspree, web3, &recordingOpener{}).Dispatch(context.Background(), testInquiry())

	require.NoError(t, err)
	assert.Equal(t, "web3forms", receipt.Tier)
	assert.Equal(t, "test-access-key", hits.payload("web3forms")["access_key"])
	assert.Equal(t, "admin@seaviewhome.co.nz", hits.payload("web3forms")["to"])
	assert.Equal(t, "Seaview Contact: admission", hits.payload("web3forms")["subject"])
}

func TestDispatch_AllTiersFailOpensMailto(t *testing.T) {
	hits := &hitCounter{}
	relay := newTierServer(t, hits, "relay", http.StatusInternalServerError, `{"error":"Failed to send email."}`)
	formspree := newTierServer(t, hits, "formspree", http.StatusServiceUnavailable, ``)
	web3 := newTierServer(t, hits, "web3forms", http.StatusOK, `{"success":false,"message":"Invalid access key"}`)
	opener := &recordingOpener{}

	_, err := newChain(relay, formspree, web3, opener).Dispatch(context.Background(), testInquiry())

	var fatal *FatalDeliveryError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, ManualSendMessage, fatal.Message)
	require.Len(t, fatal.Attempts, 3)
	assert.Equal(t, "relay", fatal.Attempts[0].Tier)
	assert.Equal(t, http.StatusInternalServerError, fatal.Attempts[0].StatusCode)
	assert.Equal(t, "web3forms", fatal.Attempts[2].Tier)

	require.Len(t, opener.uris, 1)
	assert.Equal(t, opener.uris[0], fatal.MailtoURI)
	assert.True(t, strings.HasPrefix(fatal.MailtoURI, "mailto:admin@seaviewhome.co.nz?subject="))

	for _, tier := range []string{"relay", "formspree", "web3forms"} {
		assert.Equal(t, 1, hits.count(tier), tier)
	}
}

func TestDispatch_UnreachableRelay(t *testing.T) {
	relay := httptest.NewServer(http.NotFoundHandler())
	relayURL := relay.URL
	relay.Close()

	opener := &recordingOpener{err: errors.New("no mail client")}
	d := NewDispatcher(
		[]Strategy{NewRelayStrategy(relayURL, http.DefaultClient)},
		NewMailtoFallback("admin@seaviewhome.co.nz", opener),
		nil,
	)

	_, err := d.Dispatch(context.Background(), testInquiry())

	var fatal *FatalDeliveryError
	require.True(t, errors.As(err, &fatal))
	assert.NotEmpty(t, fatal.MailtoURI, "link is still offered when the opener fails")
	require.Len(t, fatal.Attempts, 1)
	assert.Zero(t, fatal.Attempts[0].StatusCode)
}

func TestNewFromConfig_OptionalTiers(t *testing.T) {
	d := NewFromConfig(&config.Config{RelayURL: "http://localhost:8080/contact"}, nil, nil)
	assert.Equal(t, []string{"relay"}, d.Tiers())

	d = NewFromConfig(&config.Config{RelayURL: "x", FormspreeFormID: "f", Web3FormsAccessKey: "k"}, nil, nil)
	assert.Equal(t, []string{"relay", "formspree", "web3forms"}, d.Tiers())
}

type blockingStrategy struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingStrategy) Name() string { return "blocking" }

func (b *blockingStrategy) Deliver(ctx context.Context, _ domain.Inquiry) (domain.DeliveryReceipt, error) {
	close(b.started)
	<-b.release
	return domain.DeliveryReceipt{Tier: b.Name()}, nil
}

func TestDispatch_RejectsConcurrentSubmission(t *testing.T) {
	tier := &blockingStrategy{started: make(chan struct{}), release: make(chan struct{})}
	d := NewDispatcher([]Strategy{tier}, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := d.Dispatch(context.Background(), testInquiry())
		done <- err
	}()
	<-tier.started

	_, err := d.Dispatch(context.Background(), testInquiry())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(tier.release)
	require.NoError(t, <-done)

	// Guard is released once the first submission finishes
	tier2 := &blockingStrategy{started: make(chan struct{}), release: make(chan struct{})}
	close(tier2.release)
	d.tiers = []Strategy{tier2}
	_, err = d.Dispatch(context.Background(), testInquiry())
	assert.NoError(t, err)
}

func TestMailtoURI(t *testing.T) {
	inq := testInquiry()
	uri := MailtoURI("admin@seaviewhome.co.nz", inq)

	assert.NotContains(t, uri, "+", "spaces are encoded as %20")
	assert.NotContains(t, uri, " ")

	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "mailto", parsed.Scheme)
	assert.Equal(t, "admin@seaviewhome.co.nz", parsed.Opaque)

	query, err := url.ParseQuery(parsed.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "Seaview Aged Care: admission", query.Get("subject"))
	assert.Equal(t, `Name: Mere Tane
Email: mere@example.co.nz
Phone: Not provided
Subject: admission

Message:
I would like to arrange a visit & a tour.

---
Please respond to this inquiry as soon as possible.`, query.Get("body"))
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "a%20b%26c%3Dd%0Ae", encodeURIComponent("a b&c=d\ne"))
	assert.Equal(t, "M%C4%81ori", encodeURIComponent("Māori"))
}

func TestTransportError(t *testing.T) {
	cause := errors.New("boom")
	err := &TransportError{Tier: "relay", StatusCode: 502, Err: cause}
	assert.Equal(t, "relay: HTTP 502: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	fatal := &FatalDeliveryError{Message: ManualSendMessage, Attempts: []*TransportError{err}}
	assert.ErrorIs(t, fatal, cause)
	assert.Contains(t, fatal.Error(), "relay: HTTP 502")
}
