package processor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries the webhook signature. The value has the form
// "t=<unix>,v1=<hex>" where <hex> is HMAC-SHA256 over "<unix>.<raw body>"
// keyed with the shared webhook secret. The raw request body must be used
// verbatim; re-serializing the JSON breaks verification.
const SignatureHeader = "Processor-Signature"

// EventCheckoutCompleted is the event type emitted when a hosted checkout
// session finishes with a successful charge. Other event types are
// acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// defaultTolerance bounds how old a signed timestamp may be. Replays of
// captured payloads outside this window are rejected even with a valid MAC.
const defaultTolerance = 5 * time.Minute

// ErrInvalidSignature is returned when the signature header is missing,
// malformed, stale, or does not match the payload. It is non-retryable
// and should be logged as a potential attack or misconfiguration.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Event is a webhook delivery from the processor. Delivery is
// at-least-once: consumers must tolerate seeing the same event id twice.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

// ConstructEvent verifies the signature header against the raw payload and
// the shared secret, then parses the event. Nothing about the payload is
// trusted before verification succeeds.
func ConstructEvent(payload []byte, header, secret string) (Event, error) {
	return constructEventAt(payload, header, secret, defaultTolerance, time.Now())
}

func constructEventAt(payload []byte, header, secret string, tolerance time.Duration, now time.Time) (Event, error) {
	var ev Event
	if err := verifySignatureAt(payload, header, secret, tolerance, now); err != nil {
		return ev, err
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, ErrInvalidSignature
	}
	return ev, nil
}

// verifySignatureAt checks the MAC and the timestamp window. Comparison is
// constant time.
func verifySignatureAt(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	ts, sig, ok := parseSignatureHeader(header)
	if !ok {
		return ErrInvalidSignature
	}
	signedAt := time.Unix(ts, 0)
	if tolerance > 0 {
		age := now.Sub(signedAt)
		if age > tolerance || age < -tolerance {
			return ErrInvalidSignature
		}
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)
	got, err := hex.DecodeString(sig)
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(expected, got) {
		return ErrInvalidSignature
	}
	return nil
}

// parseSignatureHeader splits "t=<unix>,v1=<hex>" into its parts.
func parseSignatureHeader(header string) (ts int64, sig string, ok bool) {
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, "", false
			}
			ts = n
		case "v1":
			sig = v
		}
	}
	if ts == 0 || sig == "" {
		return 0, "", false
	}
	return ts, sig, true
}

// SignPayload produces a signature header value for a payload. The server
// never calls this in production; it exists for tests and local tooling
// that emulate processor deliveries.
func SignPayload(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}
