package models

import (
	"database/sql"
	"testing"
)

func TestClientLabel(t *testing.T) {
	tests := []struct {
		name   string
		client Client
		want   string
	}{
		{
			name:   "stage name wins",
			client: Client{FullName: "Sarah Jennings", StageName: sql.NullString{String: "The Night Owls", Valid: true}},
			want:   "The Night Owls",
		},
		{
			name:   "falls back to full name",
			client: Client{FullName: "Sarah Jennings"},
			want:   "Sarah Jennings",
		},
		{
			name:   "empty stage name is ignored",
			client: Client{FullName: "Sarah Jennings", StageName: sql.NullString{Valid: true}},
			want:   "Sarah Jennings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.client.Label(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
