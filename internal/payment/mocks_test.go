package payment

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/matchtix/stadium-ticketing/internal/model"
	"github.com/matchtix/stadium-ticketing/internal/processor"
	"github.com/matchtix/stadium-ticketing/internal/repository"
)

var errMockStore = errors.New("mock store failure")

// fakeReservations implements ReservationStore over an in-memory map.
type fakeReservations struct {
	byID map[uint64]*model.Reservation
}

func newFakeReservations(rs ...*model.Reservation) *fakeReservations {
	f := &fakeReservations{byID: map[uint64]*model.Reservation{}}
	for _, r := range rs {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

// fakeProgrammes implements ProgrammeStore over an in-memory map.
type fakeProgrammes struct {
	byID map[uint64]*model.Programme
}

func newFakeProgrammes(ps ...*model.Programme) *fakeProgrammes {
	f := &fakeProgrammes{byID: map[uint64]*model.Programme{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProgrammes) GetByID(_ context.Context, id uint64) (*model.Programme, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrProgrammeNotFound
	}
	cp := *p
	return &cp, nil
}

// fakePayments implements PaymentStore with the same unique-key semantics
// as the MySQL table: the first insert for a reservation wins, later ones
// get repository.ErrDuplicatePayment. Guarded by a mutex so concurrent
// confirmation tests exercise the race honestly.
type fakePayments struct {
	mu      sync.Mutex
	byRes   map[uint64]*model.Payment
	nextID  uint64
	inserts int
	failing bool
}

func newFakePayments() *fakePayments {
	return &fakePayments{byRes: map[uint64]*model.Payment{}, nextID: 1}
}

func (f *fakePayments) Insert(_ context.Context, p *model.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.failing {
		return errMockStore
	}
	if _, exists := f.byRes[p.ReservationID]; exists {
		return repository.ErrDuplicatePayment
	}
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.byRes[p.ReservationID] = &cp
	return nil
}

func (f *fakePayments) GetByReservation(_ context.Context, reservationID uint64) (*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byRes[reservationID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byRes)
}

// fakeGateway implements Gateway. Sessions returned by GetCheckoutSession
// are configured per test; CreateCheckoutSession records the params it was
// called with.
type fakeGateway struct {
	mu          sync.Mutex
	createCalls int
	lastParams  processor.CheckoutParams
	createErr   error
	sessions    map[string]*processor.CheckoutSession
	getErr      error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]*processor.CheckoutSession{}}
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, p processor.CheckoutParams) (*processor.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastParams = p
	if f.createErr != nil {
		return nil, f.createErr
	}
	sess := &processor.CheckoutSession{
		ID:            "cs_test_1",
		URL:           "https://pay.example.test/cs_test_1",
		Status:        "open",
		PaymentStatus: processor.PaymentStatusUnpaid,
		AmountTotal:   p.AmountCents,
		Currency:      p.Currency,
		Metadata:      map[string]string{"reservation_id": uintString(p.ReservationID)},
	}
	f.sessions[sess.ID] = sess
	return sess, nil
}

func (f *fakeGateway) GetCheckoutSession(_ context.Context, id string) (*processor.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	sess, ok := f.sessions[id]
	if !ok {
		return nil, processor.ErrUnavailable
	}
	cp := *sess
	return &cp, nil
}

func uintString(n uint64) string { return strconv.FormatUint(n, 10) }

// paidSession builds a completed session correlated to a reservation.
func paidSession(id string, reservationID uint64, amount int64) *processor.CheckoutSession {
	return &processor.CheckoutSession{
		ID:            id,
		Status:        "complete",
		PaymentStatus: processor.PaymentStatusPaid,
		AmountTotal:   amount,
		Currency:      "eur",
		PaymentMethod: "card",
		Metadata:      map[string]string{"reservation_id": uintString(reservationID)},
	}
}
