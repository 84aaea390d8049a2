package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mm-booking-services/services/games-lambda/models"
)

func TestParseOpponent(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		opponent string
		home     bool
		ok       bool
	}{
		{name: "home game", raw: "vs Georgia", opponent: "Georgia", home: true, ok: true},
		{name: "away game", raw: "@ Alabama", opponent: "Alabama", home: false, ok: true},
		{name: "ranked opponent", raw: "vs 5 Alabama", opponent: "Alabama", home: true, ok: true},
		{name: "multi word school", raw: "@ Texas A&M", opponent: "Texas A&M", home: false, ok: true},
		{name: "header row", raw: "Opponent", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "bare vs", raw: "vs", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opponent, home, ok := ParseOpponent(tt.raw)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if opponent != tt.opponent {
				t.Errorf("expected opponent %q, got %q", tt.opponent, opponent)
			}
			if home != tt.home {
				t.Errorf("expected home=%v, got %v", tt.home, home)
			}
		})
	}
}

func TestParseGameDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{
			name: "regular season",
			raw:  "Sat, Sep 5",
			want: time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "bowl game rolls into january",
			raw:  "Mon, Jan 1",
			want: time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{name: "header row", raw: "Date", ok: false},
		{name: "garbage", raw: "Sat Sep 5", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseGameDate(tt.raw, 2026)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseKickoff(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"7:00 PM", "7:00 PM"},
		{"11:00 AM", "11:00 AM"},
		{"TBD", "TBD"},
		{"", "TBD"},
		{"W 34-10", ""},
		{"L 17-24", ""},
		{"Postponed", "TBD"},
	}

	for _, tt := range tests {
		if got := ParseKickoff(tt.raw); got != tt.want {
			t.Errorf("ParseKickoff(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

const scheduleHTML = `
<table>
  <tr class="Table__TR"><td>Date</td><td>Opponent</td><td>Time</td></tr>
  <tr class="Table__TR"><td>Sat, Sep 5</td><td>vs Samford</td><td>7:00 PM</td></tr>
  <tr class="Table__TR"><td>Sat, Sep 12</td><td>@ Georgia</td><td>TBD</td></tr>
  <tr class="Table__TR"><td>Sat, Nov 28</td><td>vs 5 Alabama</td><td>2:30 PM</td></tr>
  <tr class="Table__TR"><td colspan="3">BYE WEEK</td></tr>
</table>`

type captureStore struct {
	games []models.FootballGame
}

func (c *captureStore) ReplaceTeamGames(_ context.Context, _ models.Team, games []models.FootballGame) error {
	c.games = games
	return nil
}

func TestParseSchedule(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(scheduleHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scraper := &Scraper{seasonYear: 2026}
	games := scraper.parseSchedule(doc, models.TeamAuburn)

	if len(games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(games))
	}

	first := games[0]
	if first.Opponent != "Samford" || !first.Home || first.Kickoff != "7:00 PM" {
		t.Errorf("unexpected first game: %+v", first)
	}
	if first.Date.Month() != time.September || first.Date.Day() != 5 {
		t.Errorf("unexpected first game date: %v", first.Date)
	}

	if games[1].Home {
		t.Error("road game parsed as home")
	}
	if games[2].Opponent != "Alabama" {
		t.Errorf("ranking not stripped: %q", games[2].Opponent)
	}
}

func TestRefreshTeamStoresParsedSchedule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, scheduleHTML)
	}))
	defer server.Close()

	oldURL := scheduleURLs[models.TeamAuburn]
	scheduleURLs[models.TeamAuburn] = server.URL
	defer func() { scheduleURLs[models.TeamAuburn] = oldURL }()

	store := &captureStore{}
	scraper := &Scraper{store: store, client: server.Client(), seasonYear: 2026}

	if err := scraper.refreshTeam(context.Background(), models.TeamAuburn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.games) != 3 {
		t.Errorf("expected 3 stored games, got %d", len(store.games))
	}
}

func TestSeasonYearFor(t *testing.T) {
	if got := seasonYearFor(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)); got != 2026 {
		t.Errorf("fall date: expected 2026, got %d", got)
	}
	if got := seasonYearFor(time.Date(2027, time.January, 5, 0, 0, 0, 0, time.UTC)); got != 2026 {
		t.Errorf("bowl season date: expected 2026, got %d", got)
	}
}
