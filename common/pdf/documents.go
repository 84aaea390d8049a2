package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ConfirmationDoc carries the fields for an artist confirmation PDF.
type ConfirmationDoc struct {
	Performer    string
	VenueName    string
	VenueAddress string
	VenueCity    string
	VenueState   string
	VenueZip     string
	EventDate    time.Time
	StartTime    string // h:mm AM/PM
	EndTime      string
	Rate         string
}

// InvoiceDoc carries the fields for a venue invoice PDF.
type InvoiceDoc struct {
	Performer    string
	VenueName    string
	VenueAddress string
	VenueCity    string
	VenueState   string
	VenueZip     string
	EventDate    time.Time
	StartTime    string
	EndTime      string
	Rate         string
}

// BookingEntry is one row of a monthly booking list.
type BookingEntry struct {
	Day       int
	Performer string
	StartTime string
	EndTime   string
}

// MonthlyDoc carries the fields for a booking list or calendar PDF.
// Entries must be sorted by day ascending.
type MonthlyDoc struct {
	VenueName string
	Year      int
	Month     time.Month
	Entries   []BookingEntry
}

// headerTitle draws the standard document header shared by all four
// document types.
func headerTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, "Music Matters Bookings", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(8)
}

// labelRow draws a "label: value" pair on one line.
func labelRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "", 12)
	pdf.SetX(25)
	pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
}

func venueLocation(address, city, state, zip string) string {
	loc := address
	if city != "" {
		loc = fmt.Sprintf("%s, %s, %s %s", address, city, state, zip)
	}
	return loc
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderArtistConfirmation builds the confirmation sent to the artist
// ahead of a booked performance. Output is byte-for-byte reproducible
// for the same input.
func RenderArtistConfirmation(doc ConfirmationDoc) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.EventDate.UTC())
	pdf.SetModificationDate(doc.EventDate.UTC())
	pdf.AddPage()

	headerTitle(pdf, "Artist Confirmation")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, doc.Performer, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	labelRow(pdf, "Venue:", doc.VenueName)
	labelRow(pdf, "Location:", venueLocation(doc.VenueAddress, doc.VenueCity, doc.VenueState, doc.VenueZip))
	labelRow(pdf, "Date:", doc.EventDate.Format("Monday, January 2, 2006"))
	labelRow(pdf, "Time:", fmt.Sprintf("%s - %s", doc.StartTime, doc.EndTime))
	if doc.Rate != "" {
		labelRow(pdf, "Rate:", doc.Rate)
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	pdf.SetX(25)
	pdf.MultiCell(160, 6,
		"This confirms your booking at the venue and time shown above. "+
			"If any of these details are incorrect, contact Music Matters Bookings "+
			"as soon as possible.", "", "L", false)

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Music Matters Bookings", "", 1, "C", false, 0, "")

	return output(pdf)
}

// RenderInvoice builds the invoice sent to the venue after a booking
// is confirmed.
func RenderInvoice(doc InvoiceDoc) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.EventDate.UTC())
	pdf.SetModificationDate(doc.EventDate.UTC())
	pdf.AddPage()

	headerTitle(pdf, "Invoice")

	labelRow(pdf, "Billed to:", doc.VenueName)
	labelRow(pdf, "Location:", venueLocation(doc.VenueAddress, doc.VenueCity, doc.VenueState, doc.VenueZip))
	pdf.Ln(6)

	labelRow(pdf, "Performer:", doc.Performer)
	labelRow(pdf, "Performance date:", doc.EventDate.Format("January 2, 2006"))
	labelRow(pdf, "Time:", fmt.Sprintf("%s - %s", doc.StartTime, doc.EndTime))
	pdf.Ln(6)

	// Amount line, boxed.
	pdf.SetX(25)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(45, 10, "Amount due:", "1", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(115, 10, doc.Rate, "1", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Please remit payment to Music Matters Bookings.", "", 1, "C", false, 0, "")

	return output(pdf)
}

// monthStart gives the fixed timestamp used to make monthly documents
// reproducible.
func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// RenderBookingList builds the tabular list of a venue's bookings for
// one month.
func RenderBookingList(doc MonthlyDoc) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(monthStart(doc.Year, doc.Month))
	pdf.SetModificationDate(monthStart(doc.Year, doc.Month))
	pdf.AddPage()

	title := fmt.Sprintf("%s - Booking List - %s %d", doc.VenueName, doc.Month.String(), doc.Year)
	headerTitle(pdf, title)

	// Table header
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetX(25)
	pdf.CellFormat(40, 9, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(75, 9, "Performer", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 9, "Time", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, entry := range doc.Entries {
		date := time.Date(doc.Year, doc.Month, entry.Day, 0, 0, 0, 0, time.UTC)
		pdf.SetX(25)
		pdf.CellFormat(40, 8, date.Format("Mon, Jan 2"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(75, 8, entry.Performer, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 8, fmt.Sprintf("%s - %s", entry.StartTime, entry.EndTime), "1", 1, "L", false, 0, "")
	}

	if len(doc.Entries) == 0 {
		pdf.SetX(25)
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(160, 8, "No bookings scheduled this month.", "1", 1, "C", false, 0, "")
	}

	return output(pdf)
}

// RenderCalendar builds the month-grid calendar of a venue's bookings.
func RenderCalendar(doc MonthlyDoc) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(monthStart(doc.Year, doc.Month))
	pdf.SetModificationDate(monthStart(doc.Year, doc.Month))
	pdf.AddPage()

	title := fmt.Sprintf("%s - %s %d", doc.VenueName, doc.Month.String(), doc.Year)
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Performers booked on each day, keyed by day of month.
	byDay := make(map[int][]string)
	for _, entry := range doc.Entries {
		byDay[entry.Day] = append(byDay[entry.Day], entry.Performer)
	}

	const cellW = 38.0
	const cellH = 26.0
	left := (297.0 - 7*cellW) / 2

	// Weekday header row
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetX(left)
	for _, name := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		pdf.CellFormat(cellW, 8, name, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	first := monthStart(doc.Year, doc.Month)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	col := int(first.Weekday())

	pdf.SetX(left)
	for i := 0; i < col; i++ {
		pdf.CellFormat(cellW, cellH, "", "1", 0, "L", false, 0, "")
	}

	for day := 1; day <= daysInMonth; day++ {
		x := left + float64(col)*cellW
		y := pdf.GetY()

		pdf.SetXY(x, y)
		pdf.CellFormat(cellW, cellH, "", "1", 0, "L", false, 0, "")

		pdf.SetXY(x+1.5, y+1.5)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(cellW-3, 5, fmt.Sprintf("%d", day), "", 2, "L", false, 0, "")

		pdf.SetFont("Arial", "", 8)
		for _, performer := range byDay[day] {
			if len(performer) > 24 {
				performer = performer[:21] + "..."
			}
			pdf.SetX(x + 1.5)
			pdf.CellFormat(cellW-3, 4, performer, "", 2, "L", false, 0, "")
		}

		col++
		if col == 7 {
			col = 0
			pdf.SetXY(left, y+cellH)
		} else {
			pdf.SetXY(x+cellW, y)
		}
	}

	return output(pdf)
}
