package pdf

import (
	"bytes"
	"testing"
	"time"
)

func sampleConfirmation() ConfirmationDoc {
	return ConfirmationDoc{
		Performer:    "The Night Owls",
		VenueName:    "The Blue Room",
		VenueAddress: "123 Main St",
		VenueCity:    "Birmingham",
		VenueState:   "AL",
		VenueZip:     "35203",
		EventDate:    time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		StartTime:    "7:00 PM",
		EndTime:      "10:00 PM",
		Rate:         "$350.00",
	}
}

func sampleMonthly() MonthlyDoc {
	return MonthlyDoc{
		VenueName: "The Blue Room",
		Year:      2026,
		Month:     time.March,
		Entries: []BookingEntry{
			{Day: 7, Performer: "The Night Owls", StartTime: "7:00 PM", EndTime: "10:00 PM"},
			{Day: 14, Performer: "Sarah Jennings", StartTime: "6:00 PM", EndTime: "9:00 PM"},
			{Day: 14, Performer: "Delta Drifters", StartTime: "9:30 PM", EndTime: "11:30 PM"},
			{Day: 28, Performer: "Copper Canyon", StartTime: "8:00 PM", EndTime: "11:00 PM"},
		},
	}
}

func TestRenderArtistConfirmation(t *testing.T) {
	data, err := RenderArtistConfirmation(sampleConfirmation())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF document")
	}
}

func TestRenderDeterministic(t *testing.T) {
	t.Run("confirmation", func(t *testing.T) {
		first, err := RenderArtistConfirmation(sampleConfirmation())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := RenderArtistConfirmation(sampleConfirmation())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Error("two renders of the same confirmation differ")
		}
	})

	t.Run("invoice", func(t *testing.T) {
		doc := InvoiceDoc(sampleConfirmation())
		first, err := RenderInvoice(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := RenderInvoice(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Error("two renders of the same invoice differ")
		}
	})

	t.Run("booking list", func(t *testing.T) {
		first, err := RenderBookingList(sampleMonthly())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := RenderBookingList(sampleMonthly())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Error("two renders of the same booking list differ")
		}
	})

	t.Run("calendar", func(t *testing.T) {
		first, err := RenderCalendar(sampleMonthly())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := RenderCalendar(sampleMonthly())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Error("two renders of the same calendar differ")
		}
	})
}

func TestRenderBookingListEmptyMonth(t *testing.T) {
	doc := MonthlyDoc{VenueName: "The Blue Room", Year: 2026, Month: time.February}

	data, err := RenderBookingList(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty month should still produce a document")
	}
}

func TestRenderCalendarMonthBoundaries(t *testing.T) {
	// February of a leap year and a 31-day month starting on Saturday
	// both have to lay out without error.
	for _, tc := range []struct {
		name  string
		year  int
		month time.Month
	}{
		{"leap february", 2024, time.February},
		{"31 days starting saturday", 2026, time.August},
		{"december", 2026, time.December},
	} {
		t.Run(tc.name, func(t *testing.T) {
			doc := MonthlyDoc{VenueName: "The Blue Room", Year: tc.year, Month: tc.month}
			if _, err := RenderCalendar(doc); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
