package fuzzyconfig

import (
	"errors"
	"testing"

	"github.com/crateindex/crateindex/internal/catalogerr"
)

func TestPresetIdentity(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"strict exact", Strict, "Strict"},
		{"balanced exact", Balanced, "Balanced"},
		{"lenient exact", Lenient, "Lenient"},
		{
			"strict within epsilon",
			func() Config {
				c := Strict
				c.TitleThreshold += 0.05
				return c
			}(),
			"Strict",
		},
		{
			"custom thresholds",
			func() Config {
				c := Balanced
				c.TitleThreshold = 50
				return c
			}(),
			"Custom",
		},
		{
			"custom bool flip",
			func() Config {
				c := Lenient
				c.TrackNumberMustMatch = true
				return c
			}(),
			"Custom",
		},
		{
			"outside epsilon",
			func() Config {
				c := Strict
				c.TitleThreshold += 1
				return c
			}(),
			"Custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid balanced", Balanced, false},
		{"threshold too low", Config{TitleThreshold: -1, ArtistThreshold: 50, AlbumThreshold: 50, MinimumFieldsToMatch: 1}, true},
		{"threshold too high", Config{TitleThreshold: 101, ArtistThreshold: 50, AlbumThreshold: 50, MinimumFieldsToMatch: 1}, true},
		{"zero minimum fields", Config{TitleThreshold: 50, ArtistThreshold: 50, AlbumThreshold: 50, MinimumFieldsToMatch: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, catalogerr.ErrInvalidConfig) {
					t.Errorf("expected wrapped ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
