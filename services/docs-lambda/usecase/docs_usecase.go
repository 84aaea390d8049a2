package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mm-booking-services/common/config"
	"github.com/mm-booking-services/common/drive"
	"github.com/mm-booking-services/common/email"
	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/common/logger"
	"github.com/mm-booking-services/common/pdf"
	"github.com/mm-booking-services/services/docs-lambda/models"
	"github.com/mm-booking-services/services/docs-lambda/repository"
)

// Repository is the data access surface the orchestrator needs.
type Repository interface {
	GetEventByID(ctx context.Context, eventID int) (*models.Event, error)
	GetEventsByVenueMonth(ctx context.Context, venueID int, monthKey string) ([]models.Event, error)
	GetVenueByID(ctx context.Context, venueID int) (*models.Venue, error)
	GetAllVenues(ctx context.Context) ([]models.Venue, error)
	GetClientByID(ctx context.Context, clientID int) (*models.Client, error)
	StampEventSent(ctx context.Context, eventID int, docType models.DocType, sentAt time.Time) error
	StampVenueSent(ctx context.Context, venueID int, docType models.DocType, sentAt time.Time) error
}

// Mailer is the outbound email surface.
type Mailer interface {
	SendArtistConfirmation(data email.ConfirmationData) error
	SendInvoice(data email.InvoiceData) error
	SendBookingList(data email.MonthlyData) error
	SendCalendar(data email.MonthlyData) error
}

// DocumentStore is the folder-store surface.
type DocumentStore interface {
	SaveDocument(ctx context.Context, segments []string, filename string, content []byte) error
}

type DocsUseCase struct {
	repo   Repository
	mailer Mailer
	store  DocumentStore
	runner *StaggerRunner
	now    func() time.Time
}

func NewDocsUseCase(mailer Mailer, store DocumentStore) *DocsUseCase {
	cfg := config.GetConfig()
	return &DocsUseCase{
		repo:   repository.NewDocsRepository(),
		mailer: mailer,
		store:  store,
		runner: NewStaggerRunner(time.Duration(cfg.StaggerMillis) * time.Millisecond),
		now:    time.Now,
	}
}

// NewDocsUseCaseWith wires explicit collaborators.
func NewDocsUseCaseWith(repo Repository, mailer Mailer, store DocumentStore, runner *StaggerRunner) *DocsUseCase {
	return &DocsUseCase{
		repo:   repo,
		mailer: mailer,
		store:  store,
		runner: runner,
		now:    time.Now,
	}
}

// RunSingle generates, delivers, and stamps one document. The
// timestamp is written only when both delivery channels succeed.
func (uc *DocsUseCase) RunSingle(ctx context.Context, req models.JobRequest) error {
	if _, err := models.ParseDocType(string(req.Type)); err != nil {
		return err
	}

	var err error
	if req.Type.PerEvent() {
		err = uc.sendEventDocument(ctx, req.Type, req.EventID)
	} else {
		year, month := req.Year, req.Month
		if year == 0 {
			year, month = models.NextMonth(uc.now())
		}
		err = uc.sendMonthlyDocument(ctx, req.Type, req.VenueID, year, month, false)
	}

	entry := logger.JobLog{DocType: string(req.Type), Success: err == nil}
	if req.EventID != 0 {
		entry.EventID = fmt.Sprintf("%d", req.EventID)
	}
	if req.VenueID != 0 {
		entry.VenueID = fmt.Sprintf("%d", req.VenueID)
	}
	if err != nil {
		entry.Error = err.Error()
	}
	logger.LogJob(entry)

	return err
}

// RunBulk generates and delivers a per-event document type for every
// event of one venue in one month. Failed jobs are logged and
// skipped; the batch always runs to the end. Per-event timestamps are
// written only for jobs whose delivery succeeded, but the venue-level
// "all sent" stamp is written once after every job has settled,
// regardless of individual outcomes.
func (uc *DocsUseCase) RunBulk(ctx context.Context, docType models.DocType, venueID int, year int, month time.Month) error {
	if _, err := models.ParseDocType(string(docType)); err != nil {
		return err
	}
	if !docType.PerEvent() {
		return apperrors.ValidationError(fmt.Sprintf("document type %s cannot be sent in bulk", docType))
	}
	if year == 0 {
		year, month = models.NextMonth(uc.now())
	}

	venue, err := uc.repo.GetVenueByID(ctx, venueID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if venue == nil {
		return apperrors.NotFound("venue")
	}

	jobs, err := uc.buildVenueJobs(ctx, *venue, docType, year, month)
	if err != nil {
		return apperrors.DatabaseError(err)
	}

	uc.runner.Run(ctx, jobs)

	if err := uc.repo.StampVenueSent(ctx, venueID, docType, uc.now()); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// RunDaily fires the send-out-day check for every venue: each of the
// four document types whose configured day matches today's day of
// month is dispatched for the following month.
func (uc *DocsUseCase) RunDaily(ctx context.Context, now time.Time) error {
	venues, err := uc.repo.GetAllVenues(ctx)
	if err != nil {
		return apperrors.DatabaseError(err)
	}

	year, month := models.NextMonth(now)
	today := now.Day()

	// Venue-level bulk stamps go out only after every job dispatched
	// this firing has settled.
	type bulkStamp struct {
		venueID int
		docType models.DocType
	}

	var jobs []Job
	var stamps []bulkStamp
	for _, venue := range venues {
		for _, docType := range []models.DocType{
			models.DocTypeConfirmation, models.DocTypeInvoice,
			models.DocTypeBookingList, models.DocTypeCalendar,
		} {
			if venue.SendOutDay(docType) != today {
				continue
			}
			venueJobs, err := uc.buildVenueJobs(ctx, venue, docType, year, month)
			if err != nil {
				logger.WithError(err).Error(fmt.Sprintf("skipping venue %d in daily run", venue.VenueID))
				continue
			}
			jobs = append(jobs, venueJobs...)
			if docType.PerEvent() {
				stamps = append(stamps, bulkStamp{venueID: venue.VenueID, docType: docType})
			}
		}
	}

	if len(jobs) == 0 && len(stamps) == 0 {
		logger.Info(fmt.Sprintf("no venues due on day %d", today))
		return nil
	}

	logger.Info(fmt.Sprintf("daily run dispatching %d jobs for %s", len(jobs), models.MonthKey(year, month)))
	uc.runner.Run(ctx, jobs)

	for _, stamp := range stamps {
		if err := uc.repo.StampVenueSent(ctx, stamp.venueID, stamp.docType, uc.now()); err != nil {
			logger.WithError(err).Error(fmt.Sprintf("venue %d bulk stamp failed", stamp.venueID))
		}
	}
	return nil
}

// buildVenueJobs expands one venue and document type into concrete
// jobs: one per booked event for per-event types, one per venue for
// monthly types.
func (uc *DocsUseCase) buildVenueJobs(ctx context.Context, venue models.Venue, docType models.DocType, year int, month time.Month) ([]Job, error) {
	if !docType.PerEvent() {
		req := models.JobRequest{Type: docType, VenueID: venue.VenueID, Year: year, Month: month}
		return []Job{{
			Request: req,
			Run: func(ctx context.Context) error {
				return uc.sendMonthlyDocument(ctx, docType, venue.VenueID, year, month, true)
			},
		}}, nil
	}

	events, err := uc.repo.GetEventsByVenueMonth(ctx, venue.VenueID, models.MonthKey(year, month))
	if err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(events))
	for _, event := range events {
		eventID := event.EventID
		jobs = append(jobs, Job{
			Request: models.JobRequest{Type: docType, EventID: eventID, VenueID: venue.VenueID, Year: year, Month: month},
			Run: func(ctx context.Context) error {
				return uc.sendEventDocument(ctx, docType, eventID)
			},
		})
	}
	return jobs, nil
}

// sendEventDocument handles the confirmation and invoice types. Two
// copies are rendered so the email attachment and the stored file
// never share bytes.
func (uc *DocsUseCase) sendEventDocument(ctx context.Context, docType models.DocType, eventID int) error {
	event, err := uc.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if event == nil {
		return apperrors.NotFound("event")
	}

	venue, err := uc.repo.GetVenueByID(ctx, event.VenueID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if venue == nil {
		return apperrors.NotFound("venue")
	}

	// A missing client is not fatal: the event keeps a display name.
	client, err := uc.repo.GetClientByID(ctx, event.ClientID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	performer := event.PerformerLabel(client)

	// File name convention carried over from the agency's archive:
	// "<venue>/<date>/<start>-<end>/<performer> - <type>.pdf".
	nameBase := fmt.Sprintf("%s/%s/%s-%s/%s",
		venue.VenueName, event.Date.Format("2006-01-02"), event.StartTime, event.EndTime, performer)

	var emailCopy, storeCopy []byte
	var filename string
	switch docType {
	case models.DocTypeConfirmation:
		doc := pdf.ConfirmationDoc{
			Performer:    performer,
			VenueName:    venue.VenueName,
			VenueAddress: venue.Address,
			VenueCity:    venue.City,
			VenueState:   venue.State,
			VenueZip:     venue.Zip,
			EventDate:    event.Date,
			StartTime:    event.StartTime,
			EndTime:      event.EndTime,
			Rate:         event.RateString(),
		}
		filename = nameBase + " - Confirmation.pdf"
		if emailCopy, err = pdf.RenderArtistConfirmation(doc); err != nil {
			return apperrors.RenderError(err)
		}
		if storeCopy, err = pdf.RenderArtistConfirmation(doc); err != nil {
			return apperrors.RenderError(err)
		}
	case models.DocTypeInvoice:
		doc := pdf.InvoiceDoc{
			Performer:    performer,
			VenueName:    venue.VenueName,
			VenueAddress: venue.Address,
			VenueCity:    venue.City,
			VenueState:   venue.State,
			VenueZip:     venue.Zip,
			EventDate:    event.Date,
			StartTime:    event.StartTime,
			EndTime:      event.EndTime,
			Rate:         event.RateString(),
		}
		filename = nameBase + " - Invoice.pdf"
		if emailCopy, err = pdf.RenderInvoice(doc); err != nil {
			return apperrors.RenderError(err)
		}
		if storeCopy, err = pdf.RenderInvoice(doc); err != nil {
			return apperrors.RenderError(err)
		}
	}

	sendEmail := func() error {
		if docType == models.DocTypeConfirmation {
			if client == nil {
				return apperrors.New(apperrors.ErrCodeEmailDelivery, "client no longer exists, confirmation has no recipient")
			}
			return uc.mailer.SendArtistConfirmation(email.ConfirmationData{
				ClientEmail: client.Email,
				StageName:   performer,
				VenueName:   venue.VenueName,
				EventDate:   event.Date.Format("01/02/2006"),
				StartTime:   event.StartTime,
				PDF:         emailCopy,
				Filename:    filename,
			})
		}
		return uc.mailer.SendInvoice(email.InvoiceData{
			VenueEmails: venue.ContactEmails(),
			VenueName:   venue.VenueName,
			StageName:   performer,
			EventDate:   event.Date.Format("01/02/2006"),
			PDF:         emailCopy,
			Filename:    filename,
		})
	}
	saveFile := func(ctx context.Context) error {
		return uc.store.SaveDocument(ctx, drive.EventDocumentPath(venue.VenueName, event.Date), filename, storeCopy)
	}

	if err := uc.deliverBoth(ctx, sendEmail, saveFile); err != nil {
		return err
	}

	if err := uc.repo.StampEventSent(ctx, eventID, docType, uc.now()); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// sendMonthlyDocument handles the booking list and calendar types.
// When stampAlways is set the venue timestamp is written even if
// delivery failed, which is the bulk-batch contract.
func (uc *DocsUseCase) sendMonthlyDocument(ctx context.Context, docType models.DocType, venueID int, year int, month time.Month, stampAlways bool) error {
	venue, err := uc.repo.GetVenueByID(ctx, venueID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if venue == nil {
		return apperrors.NotFound("venue")
	}

	deliveryErr := uc.deliverMonthly(ctx, docType, venue, year, month)

	if stampAlways || deliveryErr == nil {
		if err := uc.repo.StampVenueSent(ctx, venueID, docType, uc.now()); err != nil {
			if deliveryErr == nil {
				return apperrors.DatabaseError(err)
			}
			logger.WithError(err).Error(fmt.Sprintf("venue %d stamp failed after delivery failure", venueID))
		}
	}
	return deliveryErr
}

func (uc *DocsUseCase) deliverMonthly(ctx context.Context, docType models.DocType, venue *models.Venue, year int, month time.Month) error {
	events, err := uc.repo.GetEventsByVenueMonth(ctx, venue.VenueID, models.MonthKey(year, month))
	if err != nil {
		return apperrors.DatabaseError(err)
	}

	entries := make([]pdf.BookingEntry, 0, len(events))
	for _, event := range events {
		client, err := uc.repo.GetClientByID(ctx, event.ClientID)
		if err != nil {
			return apperrors.DatabaseError(err)
		}
		entries = append(entries, pdf.BookingEntry{
			Day:       event.Date.Day(),
			Performer: event.PerformerLabel(client),
			StartTime: event.StartTime,
			EndTime:   event.EndTime,
		})
	}

	doc := pdf.MonthlyDoc{VenueName: venue.VenueName, Year: year, Month: month, Entries: entries}
	monthName := fmt.Sprintf("%s %d", month.String(), year)

	var emailCopy, storeCopy []byte
	var filename string
	var send func(email.MonthlyData) error
	// Monthly documents are named "<venue>/<year>-<month> - <type>.pdf".
	if docType == models.DocTypeBookingList {
		filename = fmt.Sprintf("%s/%s - Booking List.pdf", venue.VenueName, models.MonthKey(year, month))
		send = uc.mailer.SendBookingList
		if emailCopy, err = pdf.RenderBookingList(doc); err != nil {
			return apperrors.RenderError(err)
		}
		if storeCopy, err = pdf.RenderBookingList(doc); err != nil {
			return apperrors.RenderError(err)
		}
	} else {
		filename = fmt.Sprintf("%s/%s - Calendar.pdf", venue.VenueName, models.MonthKey(year, month))
		send = uc.mailer.SendCalendar
		if emailCopy, err = pdf.RenderCalendar(doc); err != nil {
			return apperrors.RenderError(err)
		}
		if storeCopy, err = pdf.RenderCalendar(doc); err != nil {
			return apperrors.RenderError(err)
		}
	}

	sendEmail := func() error {
		return send(email.MonthlyData{
			VenueEmails: venue.ContactEmails(),
			VenueName:   venue.VenueName,
			MonthName:   monthName,
			PDF:         emailCopy,
			Filename:    filename,
		})
	}
	saveFile := func(ctx context.Context) error {
		return uc.store.SaveDocument(ctx, drive.MonthlyDocumentPath(venue.VenueName, year, month), filename, storeCopy)
	}

	return uc.deliverBoth(ctx, sendEmail, saveFile)
}

// deliverBoth runs the two delivery channels concurrently and waits
// for both to settle. Email failure takes precedence in the returned
// error; a context deadline on either side comes back as the
// distinguished deadline case.
func (uc *DocsUseCase) deliverBoth(ctx context.Context, sendEmail func() error, saveFile func(ctx context.Context) error) error {
	var wg sync.WaitGroup
	var emailErr, storeErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		emailErr = sendEmail()
	}()
	go func() {
		defer wg.Done()
		storeErr = saveFile(ctx)
	}()
	wg.Wait()

	if emailErr != nil {
		appErr := apperrors.FromDelivery(emailErr, apperrors.EmailError)
		if storeErr != nil {
			appErr = appErr.WithDetails("folder-store delivery also failed: " + storeErr.Error())
		}
		return appErr
	}
	if storeErr != nil {
		return apperrors.FromDelivery(storeErr, apperrors.DriveError)
	}
	return nil
}
