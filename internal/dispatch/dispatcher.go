// Package dispatch delivers contact inquiries through an ordered chain of
// tiers: the site's mail relay, then any configured hosted form services,
// and finally a mailto link the user sends by hand.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"seaview-backend/config"
	"seaview-backend/internal/domain"

	"go.uber.org/atomic"
)

// Dispatcher tries each tier in order and stops at the first success.
type Dispatcher struct {
	tiers    []Strategy
	fallback *MailtoFallback
	log      *slog.Logger
	inFlight atomic.Bool
}

func NewDispatcher(tiers []Strategy, fallback *MailtoFallback, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{tiers: tiers, fallback: fallback, log: log}
}

// NewFromConfig builds the standard chain. Hosted form tiers are only added
// when their form id or access key is configured.
func NewFromConfig(cfg *config.Config, opener Opener, log *slog.Logger) *Dispatcher {
	client := &http.Client{Timeout: cfg.DispatchTimeout}

	tiers := []Strategy{NewRelayStrategy(cfg.RelayURL, client)}
	if cfg.FormspreeFormID != "" {
		tiers = append(tiers, NewFormspreeStrategy(cfg.FormspreeURL, cfg.FormspreeFormID, client))
	}
	if cfg.Web3FormsAccessKey != "" {
		tiers = append(tiers, NewWeb3FormsStrategy(cfg.Web3FormsURL, cfg.Web3FormsAccessKey, cfg.ContactEmailTo, client))
	}

	return NewDispatcher(tiers, NewMailtoFallback(cfg.ContactEmailTo, opener), log)
}

// Tiers returns the names of the network tiers in the order they are tried.
func (d *Dispatcher) Tiers() []string {
	names := make([]string, len(d.tiers))
	for i, t := range d.tiers {
		names[i] = t.Name()
	}
	return names
}

// Dispatch delivers a validated inquiry. Tiers run one after another, never
// in parallel. When all of them fail the mailto link is opened and a
// *FatalDeliveryError is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, inq domain.Inquiry) (domain.DeliveryReceipt, error) {
	if !d.inFlight.CompareAndSwap(false, true) {
		return domain.DeliveryReceipt{}, ErrSubmissionInFlight
	}
	defer d.inFlight.Store(false)

	var attempts []*TransportError
	for _, tier := range d.tiers {
		receipt, err := tier.Deliver(ctx, inq)
		if err == nil {
			d.log.InfoContext(ctx, "inquiry delivered", "tier", tier.Name())
			return receipt, nil
		}

		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			transportErr = &TransportError{Tier: tier.Name(), Err: err}
		}
		attempts = append(attempts, transportErr)
		d.log.WarnContext(ctx, "delivery tier failed", "tier", tier.Name(), "error", err)

		if ctx.Err() != nil {
			break
		}
	}

	d.log.WarnContext(ctx, "all delivery tiers failed, using mailto fallback")

	fatal := &FatalDeliveryError{Message: ManualSendMessage, Attempts: attempts}
	if d.fallback != nil {
		uri, err := d.fallback.Open(ctx, inq)
		if err != nil {
			d.log.WarnContext(ctx, "could not open mail client", "error", err)
		}
		fatal.MailtoURI = uri
	}
	return domain.DeliveryReceipt{}, fatal
}
