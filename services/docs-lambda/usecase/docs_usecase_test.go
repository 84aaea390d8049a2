package usecase

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mm-booking-services/common/email"
	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/services/docs-lambda/models"
)

// ============================================================
// Fakes
// ============================================================

type venueStamp struct {
	VenueID int
	DocType models.DocType
}

type fakeRepo struct {
	mu      sync.Mutex
	events  map[int]*models.Event
	venues  map[int]*models.Venue
	clients map[int]*models.Client

	eventStamps []int
	venueStamps []venueStamp
	calls       int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events:  make(map[int]*models.Event),
		venues:  make(map[int]*models.Venue),
		clients: make(map[int]*models.Client),
	}
}

func (r *fakeRepo) touch() {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
}

func (r *fakeRepo) GetEventByID(_ context.Context, eventID int) (*models.Event, error) {
	r.touch()
	return r.events[eventID], nil
}

func (r *fakeRepo) GetEventsByVenueMonth(_ context.Context, venueID int, monthKey string) ([]models.Event, error) {
	r.touch()
	var out []models.Event
	for _, event := range r.events {
		if event.VenueID == venueID && event.MonthKey == monthKey {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetVenueByID(_ context.Context, venueID int) (*models.Venue, error) {
	r.touch()
	return r.venues[venueID], nil
}

func (r *fakeRepo) GetAllVenues(_ context.Context) ([]models.Venue, error) {
	r.touch()
	var out []models.Venue
	for _, venue := range r.venues {
		out = append(out, *venue)
	}
	return out, nil
}

func (r *fakeRepo) GetClientByID(_ context.Context, clientID int) (*models.Client, error) {
	r.touch()
	return r.clients[clientID], nil
}

func (r *fakeRepo) StampEventSent(_ context.Context, eventID int, _ models.DocType, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventStamps = append(r.eventStamps, eventID)
	return nil
}

func (r *fakeRepo) StampVenueSent(_ context.Context, venueID int, docType models.DocType, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.venueStamps = append(r.venueStamps, venueStamp{VenueID: venueID, DocType: docType})
	return nil
}

type sentMail struct {
	To  []string
	PDF []byte
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *fakeMailer) record(to []string, pdf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if len(to) == 0 {
		return fmt.Errorf("message has no recipients")
	}
	m.sent = append(m.sent, sentMail{To: to, PDF: pdf})
	return nil
}

func (m *fakeMailer) SendArtistConfirmation(d email.ConfirmationData) error {
	return m.record([]string{d.ClientEmail}, d.PDF)
}
func (m *fakeMailer) SendInvoice(d email.InvoiceData) error     { return m.record(d.VenueEmails, d.PDF) }
func (m *fakeMailer) SendBookingList(d email.MonthlyData) error { return m.record(d.VenueEmails, d.PDF) }
func (m *fakeMailer) SendCalendar(d email.MonthlyData) error    { return m.record(d.VenueEmails, d.PDF) }

type savedFile struct {
	Path     []string
	Filename string
	Content  []byte
}

type fakeStore struct {
	mu    sync.Mutex
	saved []savedFile
	fail  error
}

func (s *fakeStore) SaveDocument(_ context.Context, segments []string, filename string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.saved = append(s.saved, savedFile{Path: segments, Filename: filename, Content: content})
	return nil
}

// ============================================================
// Fixtures
// ============================================================

func testVenue(id int) *models.Venue {
	return &models.Venue{
		VenueID:      id,
		VenueName:    fmt.Sprintf("Venue %d", id),
		Address:      "123 Main St",
		City:         "Birmingham",
		State:        "AL",
		Zip:          "35203",
		ContactEmail: fmt.Sprintf("venue%d@example.com", id),
		EmailList:    sql.NullString{String: "manager@example.com", Valid: true},
	}
}

func testClient(id int) *models.Client {
	return &models.Client{
		ClientID:  id,
		FullName:  "Sarah Jennings",
		StageName: sql.NullString{String: "The Night Owls", Valid: true},
		Email:     "artist@example.com",
	}
}

func testEvent(id, clientID, venueID int) *models.Event {
	return &models.Event{
		EventID:   id,
		ClientID:  clientID,
		VenueID:   venueID,
		Date:      time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		MonthKey:  "2026-03",
		StartTime: "7:00 PM",
		EndTime:   "10:00 PM",
		Rate:      350,
	}
}

func newTestUseCase(repo *fakeRepo, mailer *fakeMailer, store *fakeStore) *DocsUseCase {
	return NewDocsUseCaseWith(repo, mailer, store, NewStaggerRunner(time.Millisecond))
}

// ============================================================
// RunSingle
// ============================================================

func TestRunSingleRejectsInvalidTypeBeforeAnySideEffect(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	store := &fakeStore{}
	uc := newTestUseCase(repo, mailer, store)

	err := uc.RunSingle(context.Background(), models.JobRequest{Type: "tax_summary", EventID: 1})
	if err == nil {
		t.Fatal("expected error for unknown document type")
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidDocType {
		t.Errorf("expected code %s, got %v", apperrors.ErrCodeInvalidDocType, err)
	}

	if repo.calls != 0 {
		t.Errorf("repository touched %d times before validation rejected the job", repo.calls)
	}
	if len(mailer.sent) != 0 || len(store.saved) != 0 {
		t.Error("delivery channels touched for a rejected job")
	}
}

func TestRunSingleConfirmationDeliversTwoIndependentCopies(t *testing.T) {
	repo := newFakeRepo()
	repo.venues[1] = testVenue(1)
	repo.clients[10] = testClient(10)
	repo.events[100] = testEvent(100, 10, 1)
	mailer := &fakeMailer{}
	store := &fakeStore{}
	uc := newTestUseCase(repo, mailer, store)

	err := uc.RunSingle(context.Background(), models.JobRequest{Type: models.DocTypeConfirmation, EventID: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	if mailer.sent[0].To[0] != "artist@example.com" {
		t.Errorf("confirmation should go to the client, went to %v", mailer.sent[0].To)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected 1 stored file, got %d", len(store.saved))
	}
	saved := store.saved[0]
	if saved.Filename != "Venue 1/2026-03-14/7:00 PM-10:00 PM/The Night Owls - Confirmation.pdf" {
		t.Errorf("unexpected filename %q", saved.Filename)
	}
	wantPath := []string{"Venue 1", "2026", "March", "14"}
	for i := range wantPath {
		if saved.Path[i] != wantPath[i] {
			t.Errorf("path segment %d: expected %q, got %q", i, wantPath[i], saved.Path[i])
		}
	}

	// Same content, different backing arrays: each channel consumes
	// its own copy.
	if !bytes.Equal(mailer.sent[0].PDF, saved.Content) {
		t.Error("the two rendered copies differ")
	}
	if &mailer.sent[0].PDF[0] == &saved.Content[0] {
		t.Error("both channels received the same underlying buffer")
	}

	if len(repo.eventStamps) != 1 || repo.eventStamps[0] != 100 {
		t.Errorf("expected event 100 stamped, got %v", repo.eventStamps)
	}
}

func TestRunSingleNoStampWhenEmailFails(t *testing.T) {
	repo := newFakeRepo()
	repo.venues[1] = testVenue(1)
	repo.clients[10] = testClient(10)
	repo.events[100] = testEvent(100, 10, 1)
	mailer := &fakeMailer{fail: fmt.Errorf("550 mailbox unavailable")}
	store := &fakeStore{}
	uc := newTestUseCase(repo, mailer, store)

	err := uc.RunSingle(context.Background(), models.JobRequest{Type: models.DocTypeInvoice, EventID: 100})
	if err == nil {
		t.Fatal("expected delivery error")
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeEmailDelivery {
		t.Errorf("expected code %s, got %v", apperrors.ErrCodeEmailDelivery, err)
	}

	// The folder store still ran; the stamp must not have.
	if len(store.saved) != 1 {
		t.Errorf("expected store delivery to settle, got %d saves", len(store.saved))
	}
	if len(repo.eventStamps) != 0 {
		t.Errorf("event stamped despite failed email: %v", repo.eventStamps)
	}
}

func TestRunSingleDeadlineIsDistinguished(t *testing.T) {
	repo := newFakeRepo()
	repo.venues[1] = testVenue(1)
	repo.clients[10] = testClient(10)
	repo.events[100] = testEvent(100, 10, 1)
	mailer := &fakeMailer{}
	store := &fakeStore{fail: context.DeadlineExceeded}
	uc := newTestUseCase(repo, mailer, store)

	err := uc.RunSingle(context.Background(), models.JobRequest{Type: models.DocTypeConfirmation, EventID: 100})
	if err == nil {
		t.Fatal("expected deadline error")
	}
	if !apperrors.IsDeadline(err) {
		t.Errorf("expected distinguished deadline error, got %v", err)
	}
	if len(repo.eventStamps) != 0 {
		t.Error("event stamped despite unconfirmed delivery")
	}
}

func TestRunSingleUnknownEvent(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, &fakeMailer{}, &fakeStore{})

	err := uc.RunSingle(context.Background(), models.JobRequest{Type: models.DocTypeInvoice, EventID: 999})
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeNotFound {
		t.Errorf("expected code %s, got %v", apperrors.ErrCodeNotFound, err)
	}
}

func TestRunSinglePerformerFallbackForRemovedClient(t *testing.T) {
	repo := newFakeRepo()
	repo.venues[1] = testVenue(1)
	event := testEvent(100, 10, 1)
	event.ClientName = sql.NullString{String: "The Night Owls", Valid: true}
	repo.events[100] = event
	// Client 10 intentionally absent.
	mailer := &fakeMailer{}
	store := &fakeStore{}
	uc := newTestUseCase(repo, mailer, store)

	// The invoice goes to the venue, so a removed client is survivable.
	err := uc.RunSingle(context.Background(), models.JobRequest{Type: models.DocTypeInvoice, EventID: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected invoice delivered, got %d mails", len(mailer.sent))
	}

	// The confirmation has no recipient without a client record.
	err = uc.RunSingle(context.Background(), models.JobRequest{Type: models.DocTypeConfirmation, EventID: 100})
	if err == nil {
		t.Fatal("expected error sending confirmation for a removed client")
	}
	if len(repo.eventStamps) != 1 {
		t.Errorf("expected only the invoice stamped, got %d stamps", len(repo.eventStamps))
	}
}

func TestRunSingleMonthlyStampsVenueOnSuccess(t *testing.T) {
	repo := newFakeRepo()
	repo.venues[1] = testVenue(1)
	repo.clients[10] = testClient(10)
	repo.events[100] = testEvent(100, 10, 1)
	mailer := &fakeMailer{}
	store := &fakeStore{}
	uc := newTestUseCase(repo, mailer, store)

	err := uc.RunSingle(context.Background(), models.JobRequest{
		Type: models.DocTypeBookingList, VenueID: 1, Year: 2026, Month: time.March,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected 1 stored file, got %d", len(store.saved))
	}
	if store.saved[0].Filename != "Venue 1/2026-03 - Booking List.pdf" {
		t.Errorf("unexpected filename %q", store.saved[0].Filename)
	}
	wantPath := []string{"Venue 1", "2026", "March"}
	for i := range wantPath {
		if store.saved[0].Path[i] != wantPath[i] {
			t.Errorf("path segment %d: expected %q, got %q", i, wantPath[i], store.saved[0].Path[i])
		}
	}

	if len(repo.venueStamps) != 1 || repo.venueStamps[0].DocType != models.DocTypeBookingList {
		t.Errorf("expected booking list stamp, got %v", repo.venueStamps)
	}
}

func TestRunSingleMonthlyNoStampOnFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.venues[1] = testVenue(1)
	mailer := &fakeMailer{fail: fmt.Errorf("connection refused")}
	uc := newTestUseCase(repo, mailer, &fakeStore{})

	err := uc.RunSingle(context.Background(), models.JobRequest{
		Type: models.DocTypeCalendar, VenueID: 1, Year: 2026, Month: time.March,
	})
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if len(repo.venueStamps) != 0 {
		t.Errorf("venue stamped despite failed single send: %v", repo.venueStamps)
	}
}

// ============================================================
// RunBulk / RunDaily
// ============================================================

func TestRunBulkRejectsMonthlyTypes(t *testing.T) {
	repo := newFakeRepo()
	repo.venues[1] = testVenue(1)
	uc := newTestUseCase(repo, &fakeMailer{}, &fakeStore{})

	err := uc.RunBulk(context.Background(), models.DocTypeCalendar, 1, 2026, time.March)
	if err == nil {
		t.Fatal("expected error for monthly type in bulk")
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeValidation {
		t.Errorf("expected code %s, got %v", apperrors.ErrCodeValidation, err)
	}
	if len(repo.venueStamps) != 0 {
		t.Errorf("venue stamped for a rejected bulk run: %v", repo.venueStamps)
	}
}

func TestRunBulkUnknownVenue(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, &fakeMailer{}, &fakeStore{})

	err := uc.RunBulk(context.Background(), models.DocTypeConfirmation, 999, 2026, time.March)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeNotFound {
		t.Errorf("expected code %s, got %v", apperrors.ErrCodeNotFound, err)
	}
	if len(repo.venueStamps) != 0 {
		t.Errorf("venue stamped for an unknown venue: %v", repo.venueStamps)
	}
}

func TestRunBulkTouchesOnlyTheRequestedVenue(t *testing.T) {
	repo := newFakeRepo()
	repo.venues[1] = testVenue(1)
	repo.venues[2] = testVenue(2)
	repo.clients[10] = testClient(10)
	repo.events[100] = testEvent(100, 10, 1)
	repo.events[200] = testEvent(200, 10, 2)
	mailer := &fakeMailer{}
	store := &fakeStore{}
	uc := newTestUseCase(repo, mailer, store)

	err := uc.RunBulk(context.Background(), models.DocTypeInvoice, 1, 2026, time.March)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("bulk run for one venue should save 1 document, got %d", len(store.saved))
	}
	if len(repo.eventStamps) != 1 || repo.eventStamps[0] != 100 {
		t.Errorf("expected only venue 1's event stamped, got %v", repo.eventStamps)
	}
	if len(repo.venueStamps) != 1 || repo.venueStamps[0].VenueID != 1 {
		t.Errorf("expected only venue 1 stamped, got %v", repo.venueStamps)
	}
}

func TestRunBulkPerEventStampsOnlySuccesses(t *testing.T) {
	repo := newFakeRepo()
	repo.venues[1] = testVenue(1)
	repo.clients[10] = testClient(10)
	repo.events[100] = testEvent(100, 10, 1)
	orphan := testEvent(101, 99, 1) // client 99 does not exist
	orphan.ClientName = sql.NullString{String: "Delta Drifters", Valid: true}
	repo.events[101] = orphan
	mailer := &fakeMailer{}
	store := &fakeStore{}
	uc := newTestUseCase(repo, mailer, store)

	err := uc.RunBulk(context.Background(), models.DocTypeConfirmation, 1, 2026, time.March)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.eventStamps) != 1 || repo.eventStamps[0] != 100 {
		t.Errorf("expected only event 100 stamped, got %v", repo.eventStamps)
	}
	// The orphaned event's stored copy still went out.
	if len(store.saved) != 2 {
		t.Errorf("expected 2 stored confirmations, got %d", len(store.saved))
	}
}

func TestRunBulkWritesVenueStampOnceAfterAllJobsSettle(t *testing.T) {
	repo := newFakeRepo()
	repo.venues[1] = testVenue(1)
	repo.clients[10] = testClient(10)
	repo.events[100] = testEvent(100, 10, 1)
	repo.events[101] = testEvent(101, 10, 1)
	repo.events[102] = testEvent(102, 10, 1)
	// Every email fails, so no per-event stamp is earned.
	mailer := &fakeMailer{fail: fmt.Errorf("450 try again later")}
	store := &fakeStore{}
	uc := newTestUseCase(repo, mailer, store)

	err := uc.RunBulk(context.Background(), models.DocTypeConfirmation, 1, 2026, time.March)
	if err != nil {
		t.Fatalf("bulk run should not surface job failures, got %v", err)
	}

	if len(repo.eventStamps) != 0 {
		t.Errorf("events stamped despite failed deliveries: %v", repo.eventStamps)
	}
	// The venue-level "all confirmations sent" stamp is written exactly
	// once after the whole batch, regardless of individual outcomes.
	if len(repo.venueStamps) != 1 {
		t.Fatalf("expected 1 venue-level bulk stamp, got %d", len(repo.venueStamps))
	}
	stamp := repo.venueStamps[0]
	if stamp.VenueID != 1 || stamp.DocType != models.DocTypeConfirmation {
		t.Errorf("unexpected venue stamp %+v", stamp)
	}
	// The failed deliveries all settled before the stamp was written.
	if len(store.saved) != 3 {
		t.Errorf("expected all 3 folder-store copies to settle, got %d", len(store.saved))
	}
}

func TestRunDailyFiresOnlyOnThresholdDay(t *testing.T) {
	repo := newFakeRepo()
	venue := testVenue(1)
	venue.BookingListDay = 15
	repo.venues[1] = venue
	mailer := &fakeMailer{}
	store := &fakeStore{}
	uc := newTestUseCase(repo, mailer, store)

	on := time.Date(2026, time.February, 15, 8, 0, 0, 0, time.UTC)
	if err := uc.RunDaily(context.Background(), on); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 document on the threshold day, got %d", len(store.saved))
	}
	// Day 15 in February targets March.
	if store.saved[0].Filename != "Venue 1/2026-03 - Booking List.pdf" {
		t.Errorf("unexpected filename %q", store.saved[0].Filename)
	}

	off := time.Date(2026, time.February, 16, 8, 0, 0, 0, time.UTC)
	if err := uc.RunDaily(context.Background(), off); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.saved) != 1 {
		t.Errorf("document dispatched off the threshold day, total saves %d", len(store.saved))
	}
}

func TestRunDailyWritesBulkStampForPerEventTypes(t *testing.T) {
	repo := newFakeRepo()
	venue := testVenue(1)
	venue.ConfirmationDay = 15
	repo.venues[1] = venue
	repo.clients[10] = testClient(10)
	repo.events[100] = testEvent(100, 10, 1)
	mailer := &fakeMailer{}
	store := &fakeStore{}
	uc := newTestUseCase(repo, mailer, store)

	now := time.Date(2026, time.February, 15, 8, 0, 0, 0, time.UTC)
	if err := uc.RunDaily(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.eventStamps) != 1 || repo.eventStamps[0] != 100 {
		t.Errorf("expected event 100 stamped, got %v", repo.eventStamps)
	}
	if len(repo.venueStamps) != 1 {
		t.Fatalf("expected 1 venue-level bulk stamp, got %d", len(repo.venueStamps))
	}
	if repo.venueStamps[0].DocType != models.DocTypeConfirmation {
		t.Errorf("expected all-confirmations stamp, got %v", repo.venueStamps[0])
	}
}

func TestRunDailyDecemberRollsToJanuary(t *testing.T) {
	repo := newFakeRepo()
	venue := testVenue(1)
	venue.CalendarDay = 20
	repo.venues[1] = venue
	store := &fakeStore{}
	uc := newTestUseCase(repo, &fakeMailer{}, store)

	now := time.Date(2026, time.December, 20, 8, 0, 0, 0, time.UTC)
	if err := uc.RunDaily(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected 1 document, got %d", len(store.saved))
	}
	if store.saved[0].Filename != "Venue 1/2027-01 - Calendar.pdf" {
		t.Errorf("December send-out should target January 2027, got %q", store.saved[0].Filename)
	}
}
