package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/matchtix/stadium-ticketing/internal/model"
	"github.com/matchtix/stadium-ticketing/internal/processor"
	"github.com/matchtix/stadium-ticketing/internal/repository"
)

// ReservationStore is the slice of the reservation repository the payment
// workflow needs. Lookups return repository.ErrReservationNotFound when no
// row exists.
type ReservationStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
}

// ProgrammeStore resolves programmes for checkout descriptions.
type ProgrammeStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Programme, error)
}

// PaymentStore persists payment records. Insert must be atomic under the
// one-payment-per-reservation constraint and return
// repository.ErrDuplicatePayment when a row already exists.
type PaymentStore interface {
	Insert(ctx context.Context, p *model.Payment) error
	GetByReservation(ctx context.Context, reservationID uint64) (*model.Payment, error)
}

// Gateway is the processor client surface used by the service.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, p processor.CheckoutParams) (*processor.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*processor.CheckoutSession, error)
}

// Service orchestrates checkout initiation and payment confirmation. Both
// confirmation paths funnel into RecordPaymentIfAbsent; no in-process
// locking coordinates them, correctness rests on the payment store's
// unique-key insert.
type Service struct {
	reservations ReservationStore
	programmes   ProgrammeStore
	payments     PaymentStore
	gateway      Gateway
	currency     string
	returnBase   string // public base URL for success/cancel redirects
}

// NewService wires the payment workflow. returnBase is the externally
// reachable base URL of this application, e.g. "https://tickets.example.com".
func NewService(res ReservationStore, prog ProgrammeStore, pay PaymentStore, gw Gateway, currency, returnBase string) *Service {
	if res == nil || prog == nil || pay == nil || gw == nil {
		panic("nil dependency passed to payment.NewService")
	}
	if currency == "" {
		currency = "eur"
	}
	return &Service{
		reservations: res,
		programmes:   prog,
		payments:     pay,
		gateway:      gw,
		currency:     currency,
		returnBase:   returnBase,
	}
}

// StartCheckout creates a processor checkout session for a reservation and
// returns it. Preconditions: the reservation exists, belongs to userID
// (the caller's identity was established by auth middleware; this check
// only pins the session to that identity), and has no payment yet. The
// charged amount is the reservation's snapshotted total, so programme
// price edits after booking never change it. On processor failure the
// error wraps processor.ErrUnavailable and no state has been created.
func (s *Service) StartCheckout(ctx context.Context, userID, reservationID uint64) (*processor.CheckoutSession, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, repository.ErrForbidden
	}
	existing, err := s.payments.GetByReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyPaid
	}
	prog, err := s.programmes.GetByID(ctx, res.ProgrammeID)
	if err != nil {
		return nil, err
	}
	params := processor.CheckoutParams{
		AmountCents:   res.TotalAmountCents,
		Currency:      s.currency,
		Description:   fmt.Sprintf("%s vs %s – %d x category %s", prog.Equipe1, prog.Equipe2, res.Quantity, res.Category),
		ReservationID: res.ID,
		SuccessURL:    fmt.Sprintf("%s/v1/reservations/%d/payment-success?session_id={CHECKOUT_SESSION_ID}", s.returnBase, res.ID),
		CancelURL:     fmt.Sprintf("%s/v1/reservations/%d/payment-cancel", s.returnBase, res.ID),
	}
	return s.gateway.CreateCheckoutSession(ctx, params)
}

// ConfirmReturn handles the synchronous redirect-return path (Path A). The
// browser hitting the success URL is advisory only, so the session is
// re-fetched from the processor and must report itself paid and correlate
// to this reservation before anything is persisted. Returns the payment
// and whether this call created it.
func (s *Service) ConfirmReturn(ctx context.Context, userID, reservationID uint64, sessionID string) (*model.Payment, bool, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, false, err
	}
	if res.UserID != userID {
		return nil, false, repository.ErrForbidden
	}
	sess, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	rid, ok := sess.ReservationID()
	if !ok || rid != reservationID {
		return nil, false, ErrSessionMismatch
	}
	if sess.PaymentStatus != processor.PaymentStatusPaid {
		return nil, false, ErrNotPaid
	}
	return s.recordSession(ctx, rid, sess)
}

// ConfirmEvent handles a verified webhook event (Path B). Signature
// verification already happened at the transport layer; this applies the
// idempotent state transition. Events of other types must be filtered out
// by the caller. Returns repository.ErrReservationNotFound when the
// event's metadata does not resolve to a known reservation.
func (s *Service) ConfirmEvent(ctx context.Context, ev processor.Event) (*model.Payment, bool, error) {
	sess := ev.Data.Object
	rid, ok := sess.ReservationID()
	if !ok {
		return nil, false, repository.ErrReservationNotFound
	}
	if _, err := s.reservations.GetByID(ctx, rid); err != nil {
		return nil, false, err
	}
	return s.recordSession(ctx, rid, &sess)
}

func (s *Service) recordSession(ctx context.Context, reservationID uint64, sess *processor.CheckoutSession) (*model.Payment, bool, error) {
	method := sess.PaymentMethod
	if method == "" {
		method = "card"
	}
	// AmountTotal is the processor-reported charge, the authoritative
	// amount for the durable record. Local pricing state is not consulted
	// here, so the record cannot drift from what was actually charged.
	return s.RecordPaymentIfAbsent(ctx, reservationID, sess.AmountTotal, method, sess.ID)
}

// RecordPaymentIfAbsent inserts the payment row for a reservation, keyed
// uniquely by reservation id. When a row already exists — the other
// confirmation path won the race, or the processor redelivered an event —
// the existing payment is returned with created=false and no error: under
// at-least-once delivery a duplicate is a success, not a fault.
func (s *Service) RecordPaymentIfAbsent(ctx context.Context, reservationID uint64, amountCents int64, method, externalRef string) (*model.Payment, bool, error) {
	p := &model.Payment{
		ReservationID: reservationID,
		AmountCents:   amountCents,
		Method:        method,
		ExternalRef:   externalRef,
	}
	err := s.payments.Insert(ctx, p)
	if err == nil {
		return p, true, nil
	}
	if errors.Is(err, repository.ErrDuplicatePayment) {
		existing, gerr := s.payments.GetByReservation(ctx, reservationID)
		if gerr != nil {
			return nil, false, gerr
		}
		return existing, false, nil
	}
	return nil, false, err
}
