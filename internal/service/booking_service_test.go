package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/diagnosis/clinic-bookings/internal/domain"
	"github.com/diagnosis/clinic-bookings/internal/repo/postgres"
	"github.com/diagnosis/clinic-bookings/internal/service"
)

// ---------- Mocks ----------

type mockPublisher struct {
	subjects []string
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.subjects = append(m.subjects, subject)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

type mockMailer struct {
	confirmations int
	lastTo        string
	err           error
}

func (m *mockMailer) Send(toEmail, _, _, _, _ string) (string, error) {
	m.lastTo = toEmail
	return "mock-id", m.err
}

func (m *mockMailer) SendBookingConfirmation(email, _, _, _, _ string) error {
	m.confirmations++
	m.lastTo = email
	return m.err
}

type mockOptionsRepo struct {
	options []domain.AppointmentOption
	err     error
}

func (m *mockOptionsRepo) List(context.Context) ([]domain.AppointmentOption, error) {
	return m.options, m.err
}

type mockBookingsRepo struct {
	nextID   int64
	bookings map[int64]*domain.Booking
}

func newMockBookingsRepo() *mockBookingsRepo {
	return &mockBookingsRepo{nextID: 1, bookings: make(map[int64]*domain.Booking)}
}

func key(date, email, treatment string) string {
	return fmt.Sprintf("%s|%s|%s", date, email, treatment)
}

func (m *mockBookingsRepo) Create(_ context.Context, in *domain.BookingReq) (*domain.Booking, error) {
	for _, b := range m.bookings {
		if key(b.AppointmentDate, b.Email, b.Treatment) == key(in.AppointmentDate, in.Email, in.Treatment) {
			return nil, postgres.ErrDuplicateBooking
		}
	}
	b := &domain.Booking{
		ID:              m.nextID,
		Treatment:       in.Treatment,
		AppointmentDate: in.AppointmentDate,
		Patient:         in.Patient,
		Email:           in.Email,
		Phone:           in.Phone,
		Slot:            in.Slot,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	m.bookings[m.nextID] = b
	m.nextID++
	return b, nil
}

func (m *mockBookingsRepo) ExistsFor(_ context.Context, date, email, treatment string) (bool, error) {
	for _, b := range m.bookings {
		if key(b.AppointmentDate, b.Email, b.Treatment) == key(date, email, treatment) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBookingsRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	return m.bookings[id], nil
}

func (m *mockBookingsRepo) ListByEmail(_ context.Context, email string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.Email == email {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingsRepo) ListByDate(_ context.Context, date string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.AppointmentDate == date {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingsRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.bookings[id]; !ok {
		return false, nil
	}
	delete(m.bookings, id)
	return true, nil
}

var _ postgres.BookingsRepo = (*mockBookingsRepo)(nil)

func newService(repo *mockBookingsRepo, opts *mockOptionsRepo) (service.BookingService, *mockPublisher, *mockMailer) {
	pub := &mockPublisher{}
	mail := &mockMailer{}
	if opts == nil {
		opts = &mockOptionsRepo{}
	}
	return service.NewBookingService(opts, repo, pub, mail), pub, mail
}

func req(date, email, treatment, slot string) *domain.BookingReq {
	return &domain.BookingReq{
		Treatment:       treatment,
		AppointmentDate: date,
		Patient:         "Pat",
		Email:           email,
		Phone:           "+15551234567",
		Slot:            slot,
	}
}

// ---------- Admission ----------

func TestAdmitStoresBookingAndPublishes(t *testing.T) {
	repo := newMockBookingsRepo()
	svc, pub, mail := newService(repo, nil)

	result, err := svc.Admit(context.Background(), req("2024-01-01", "a@x.com", "Cleaning", "9am"))
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if !result.Acknowledged {
		t.Fatal("expected acknowledged admission")
	}
	if result.Booking == nil || result.Booking.ID == 0 {
		t.Fatal("expected stored booking with generated id")
	}
	if len(pub.subjects) != 1 || pub.subjects[0] != "booking.created" {
		t.Errorf("expected booking.created event, got %v", pub.subjects)
	}
	if mail.confirmations != 1 || mail.lastTo != "a@x.com" {
		t.Errorf("expected one confirmation to a@x.com, got %d to %q", mail.confirmations, mail.lastTo)
	}
}

func TestAdmitDuplicateRejectedWithoutError(t *testing.T) {
	repo := newMockBookingsRepo()
	svc, pub, _ := newService(repo, nil)

	if _, err := svc.Admit(context.Background(), req("2024-01-01", "a@x.com", "Cleaning", "9am")); err != nil {
		t.Fatalf("first Admit: %v", err)
	}

	result, err := svc.Admit(context.Background(), req("2024-01-01", "a@x.com", "Cleaning", "10am"))
	if err != nil {
		t.Fatalf("second Admit: %v", err)
	}
	if result.Acknowledged {
		t.Fatal("expected duplicate to be rejected")
	}
	if result.Message == "" {
		t.Error("expected a client-facing message on rejection")
	}
	if len(repo.bookings) != 1 {
		t.Errorf("expected exactly one stored booking, got %d", len(repo.bookings))
	}
	if len(pub.subjects) != 1 {
		t.Errorf("duplicate must not publish a second event, got %v", pub.subjects)
	}
}

func TestAdmitRaceLoserTreatedAsDuplicate(t *testing.T) {
	// Simulate losing the race: the pre-insert read sees nothing, but the
	// insert trips the unique index.
	repo := newMockBookingsRepo()
	if _, err := repo.Create(context.Background(), req("2024-01-01", "a@x.com", "Cleaning", "9am")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	racy := &raceBookingsRepo{mockBookingsRepo: repo}

	svc := service.NewBookingService(&mockOptionsRepo{}, racy, &mockPublisher{}, &mockMailer{})
	result, err := svc.Admit(context.Background(), req("2024-01-01", "a@x.com", "Cleaning", "9am"))
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if result.Acknowledged {
		t.Fatal("race loser must get the duplicate rejection, not an error")
	}
}

type raceBookingsRepo struct{ *mockBookingsRepo }

func (r *raceBookingsRepo) ExistsFor(context.Context, string, string, string) (bool, error) {
	return false, nil
}

// ---------- Availability ----------

func TestAvailabilityOnNarrowsSlots(t *testing.T) {
	repo := newMockBookingsRepo()
	opts := &mockOptionsRepo{options: []domain.AppointmentOption{
		{Name: "Cleaning", Slots: []string{"9am", "10am"}},
	}}
	svc, _, _ := newService(repo, opts)

	if _, err := svc.Admit(context.Background(), req("2024-01-01", "a@x.com", "Cleaning", "9am")); err != nil {
		t.Fatalf("Admit: %v", err)
	}

	got, err := svc.AvailabilityOn(context.Background(), "2024-01-01")
	if err != nil {
		t.Fatalf("AvailabilityOn: %v", err)
	}
	if len(got) != 1 || len(got[0].Slots) != 1 || got[0].Slots[0] != "10am" {
		t.Errorf(`expected Cleaning with ["10am"], got %v`, got)
	}

	// A different date is unaffected.
	other, err := svc.AvailabilityOn(context.Background(), "2024-01-02")
	if err != nil {
		t.Fatalf("AvailabilityOn: %v", err)
	}
	if len(other[0].Slots) != 2 {
		t.Errorf("expected full catalog on another date, got %v", other[0].Slots)
	}
}

// ---------- Cancellation ----------

func TestCancelOwnBooking(t *testing.T) {
	repo := newMockBookingsRepo()
	svc, pub, _ := newService(repo, nil)

	result, _ := svc.Admit(context.Background(), req("2024-01-01", "a@x.com", "Cleaning", "9am"))

	if err := svc.Cancel(context.Background(), result.Booking.ID, "a@x.com", false); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(repo.bookings) != 0 {
		t.Error("expected booking deleted")
	}
	if len(pub.subjects) != 2 || pub.subjects[1] != "booking.canceled" {
		t.Errorf("expected booking.canceled event, got %v", pub.subjects)
	}
}

func TestCancelForeignBookingForbidden(t *testing.T) {
	repo := newMockBookingsRepo()
	svc, _, _ := newService(repo, nil)

	result, _ := svc.Admit(context.Background(), req("2024-01-01", "a@x.com", "Cleaning", "9am"))

	err := svc.Cancel(context.Background(), result.Booking.ID, "b@x.com", false)
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.bookings) != 1 {
		t.Error("booking must survive a forbidden cancel")
	}
}

func TestCancelAsAdmin(t *testing.T) {
	repo := newMockBookingsRepo()
	svc, _, _ := newService(repo, nil)

	result, _ := svc.Admit(context.Background(), req("2024-01-01", "a@x.com", "Cleaning", "9am"))

	if err := svc.Cancel(context.Background(), result.Booking.ID, "admin@x.com", true); err != nil {
		t.Fatalf("admin Cancel: %v", err)
	}
}

func TestCancelMissingBooking(t *testing.T) {
	repo := newMockBookingsRepo()
	svc, _, _ := newService(repo, nil)

	err := svc.Cancel(context.Background(), 42, "a@x.com", false)
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
