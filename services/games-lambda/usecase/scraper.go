package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/common/logger"
	"github.com/mm-booking-services/services/games-lambda/models"
)

// scheduleURLs maps each followed team to its public schedule page.
var scheduleURLs = map[models.Team]string{
	models.TeamAuburn:  "https://www.espn.com/college-football/team/schedule/_/id/2",
	models.TeamAlabama: "https://www.espn.com/college-football/team/schedule/_/id/333",
}

// GameStore persists scraped schedules.
type GameStore interface {
	ReplaceTeamGames(ctx context.Context, team models.Team, games []models.FootballGame) error
}

// Scraper fetches and parses the schedule pages for each followed
// team. Implements the weekly refresh the scheduler drives.
type Scraper struct {
	store  GameStore
	client *http.Client
	// seasonYear anchors month-only schedule dates. Zero means derive
	// from the current date at scrape time.
	seasonYear int
}

func NewScraper(store GameStore) *Scraper {
	return &Scraper{
		store:  store,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// RefreshAll scrapes every followed team. A team that fails to scrape
// is logged and skipped so one bad page does not lose the other
// team's refresh.
func (s *Scraper) RefreshAll(ctx context.Context) error {
	var lastErr error
	for _, team := range models.Teams() {
		if err := s.refreshTeam(ctx, team); err != nil {
			logger.WithError(err).Error(fmt.Sprintf("schedule refresh failed for %s", team))
			lastErr = err
		}
	}
	return lastErr
}

func (s *Scraper) refreshTeam(ctx context.Context, team models.Team) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scheduleURLs[team], nil)
	if err != nil {
		return apperrors.ScrapeError(err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; booking-pipeline)")

	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.ScrapeError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.ScrapeError(fmt.Errorf("schedule page returned %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return apperrors.ScrapeError(err)
	}

	games := s.parseSchedule(doc, team)
	if len(games) == 0 {
		return apperrors.ScrapeError(fmt.Errorf("no games parsed for %s", team))
	}

	if err := s.store.ReplaceTeamGames(ctx, team, games); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("refreshed %d games for %s", len(games), team))
	return nil
}

// parseSchedule walks the schedule table rows. Rows that do not look
// like games (headers, byes) are skipped.
func (s *Scraper) parseSchedule(doc *goquery.Document, team models.Team) []models.FootballGame {
	year := s.seasonYear
	if year == 0 {
		year = seasonYearFor(time.Now())
	}

	var games []models.FootballGame
	doc.Find("tr.Table__TR").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		date, ok := ParseGameDate(strings.TrimSpace(cells.Eq(0).Text()), year)
		if !ok {
			return
		}
		opponent, home, ok := ParseOpponent(strings.TrimSpace(cells.Eq(1).Text()))
		if !ok {
			return
		}
		kickoff := ParseKickoff(strings.TrimSpace(cells.Eq(2).Text()))

		games = append(games, models.FootballGame{
			Team:     team,
			Opponent: opponent,
			Date:     date,
			Kickoff:  kickoff,
			Home:     home,
		})
	})
	return games
}

// seasonYearFor maps a date to the football season it falls in: the
// spring half of the year still belongs to the previous fall season.
func seasonYearFor(now time.Time) int {
	if now.Month() < time.June {
		return now.Year() - 1
	}
	return now.Year()
}

// ParseOpponent splits an opponent cell like "vs Georgia" or
// "@ 5 Alabama" into the opponent name and home flag. Rankings are
// stripped.
func ParseOpponent(raw string) (string, bool, bool) {
	var home bool
	switch {
	case strings.HasPrefix(raw, "vs"):
		home = true
		raw = strings.TrimPrefix(raw, "vs")
	case strings.HasPrefix(raw, "@"):
		raw = strings.TrimPrefix(raw, "@")
	default:
		return "", false, false
	}

	raw = strings.TrimSpace(raw)
	// Drop a leading ranking number ("5 Alabama" -> "Alabama").
	fields := strings.Fields(raw)
	if len(fields) > 1 && isDigits(fields[0]) {
		raw = strings.Join(fields[1:], " ")
	}

	if raw == "" {
		return "", false, false
	}
	return raw, home, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseGameDate parses a schedule date cell like "Sat, Sep 5".
// January dates belong to the season's bowl window in the following
// calendar year.
func ParseGameDate(raw string, seasonYear int) (time.Time, bool) {
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}

	parsed, err := time.Parse("Jan 2", strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}

	year := seasonYear
	if parsed.Month() == time.January {
		year++
	}
	return time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
}

// ParseKickoff normalizes a time cell. Completed games carry a result
// ("W 34-10") instead of a time and come back empty.
func ParseKickoff(raw string) string {
	if raw == "" || raw == "TBD" {
		return "TBD"
	}
	if strings.HasPrefix(raw, "W ") || strings.HasPrefix(raw, "L ") || strings.HasPrefix(raw, "T ") {
		return ""
	}
	if strings.HasSuffix(raw, "AM") || strings.HasSuffix(raw, "PM") {
		return raw
	}
	return "TBD"
}
