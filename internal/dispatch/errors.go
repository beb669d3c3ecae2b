package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSubmissionInFlight is returned when Dispatch is called while another
// submission on the same dispatcher has not finished.
var ErrSubmissionInFlight = errors.New("dispatch: a submission is already in progress")

// TransportError reports that one delivery tier could not deliver the
// inquiry. It is recoverable: the dispatcher moves on to the next tier.
type TransportError struct {
	Tier       string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Tier, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Tier, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FatalDeliveryError reports that every network tier failed. MailtoURI holds
// the fallback link offered to the user, who must send it by hand.
type FatalDeliveryError struct {
	Message   string
	MailtoURI string
	Attempts  []*TransportError
}

func (e *FatalDeliveryError) Error() string {
	if len(e.Attempts) == 0 {
		return e.Message
	}
	tiers := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		tiers[i] = a.Error()
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(tiers, "; "))
}

func (e *FatalDeliveryError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a
	}
	return errs
}
