package processor

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "whsec_test"

func validPayload() []byte {
	return []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_status":"paid","amount_total":7500,"metadata":{"reservation_id":"42"}}}}`)
}

func TestConstructEvent(t *testing.T) {
	now := time.Unix(1700000000, 0)

	t.Run("valid signature parses the event", func(t *testing.T) {
		payload := validPayload()
		header := SignPayload(payload, testSecret, now)

		ev, err := constructEventAt(payload, header, testSecret, defaultTolerance, now)
		if err != nil {
			t.Fatalf("constructEventAt: %v", err)
		}
		if ev.Type != EventCheckoutCompleted {
			t.Errorf("unexpected type %q", ev.Type)
		}
		rid, ok := ev.Data.Object.ReservationID()
		if !ok || rid != 42 {
			t.Errorf("expected reservation 42, got %d ok=%v", rid, ok)
		}
		if ev.Data.Object.AmountTotal != 7500 {
			t.Errorf("expected amount 7500, got %d", ev.Data.Object.AmountTotal)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		payload := validPayload()
		header := SignPayload(payload, "whsec_other", now)

		if _, err := constructEventAt(payload, header, testSecret, defaultTolerance, now); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		payload := validPayload()
		header := SignPayload(payload, testSecret, now)
		tampered := append([]byte(nil), payload...)
		tampered[30]++ // flip one byte inside the body

		if _, err := constructEventAt(tampered, header, testSecret, defaultTolerance, now); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		if _, err := constructEventAt(validPayload(), "", testSecret, defaultTolerance, now); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, h := range []string{"t=abc,v1=00", "v1=00", "t=1700000000", "garbage"} {
			if _, err := constructEventAt(validPayload(), h, testSecret, defaultTolerance, now); !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("header %q: expected ErrInvalidSignature, got %v", h, err)
			}
		}
	})

	t.Run("stale timestamp outside tolerance", func(t *testing.T) {
		payload := validPayload()
		header := SignPayload(payload, testSecret, now.Add(-6*time.Minute))

		if _, err := constructEventAt(payload, header, testSecret, defaultTolerance, now); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("expected ErrInvalidSignature for stale delivery, got %v", err)
		}
	})

	t.Run("timestamp just inside tolerance", func(t *testing.T) {
		payload := validPayload()
		header := SignPayload(payload, testSecret, now.Add(-4*time.Minute))

		if _, err := constructEventAt(payload, header, testSecret, defaultTolerance, now); err != nil {
			t.Errorf("expected acceptance inside tolerance, got %v", err)
		}
	})

	t.Run("valid signature over invalid JSON", func(t *testing.T) {
		payload := []byte(`{not json`)
		header := SignPayload(payload, testSecret, now)

		if _, err := constructEventAt(payload, header, testSecret, defaultTolerance, now); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("expected ErrInvalidSignature, got %v", err)
		}
	})
}

func TestSessionReservationID(t *testing.T) {
	cases := []struct {
		name string
		meta map[string]string
		want uint64
		ok   bool
	}{
		{"present", map[string]string{"reservation_id": "42"}, 42, true},
		{"absent", map[string]string{}, 0, false},
		{"nil metadata", nil, 0, false},
		{"not a number", map[string]string{"reservation_id": "abc"}, 0, false},
		{"zero", map[string]string{"reservation_id": "0"}, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := &CheckoutSession{Metadata: c.meta}
			got, ok := s.ReservationID()
			if got != c.want || ok != c.ok {
				t.Errorf("ReservationID() = (%d, %v), want (%d, %v)", got, ok, c.want, c.ok)
			}
		})
	}
}
