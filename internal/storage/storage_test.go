package storage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDefaults(t *testing.T) {
	t.Run("Preferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.MoveTimeMs != 100 {
			t.Errorf("expected 100ms default move time, got %d", prefs.MoveTimeMs)
		}
		if !prefs.ShowLegalMoves {
			t.Error("expected legal-move hints enabled by default")
		}
		if prefs.EnginePath != "" {
			t.Errorf("expected empty engine path, got %q", prefs.EnginePath)
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &Stats{}
		if stats.WinRate() != 0 {
			t.Error("expected 0 win rate for no games")
		}
		stats = &Stats{GamesPlayed: 10, Wins: 5, Losses: 3, Draws: 2}
		if rate := stats.WinRate(); rate != 50 {
			t.Errorf("expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := newStoreAt(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	t.Run("Preferences", func(t *testing.T) {
		want := &Preferences{
			EnginePath:     "/usr/bin/stockfish",
			MoveTimeMs:     250,
			ShowLegalMoves: false,
		}
		if err := store.SavePreferences(want); err != nil {
			t.Fatal(err)
		}
		got, err := store.LoadPreferences()
		if err != nil {
			t.Fatal(err)
		}
		ignoreTime := cmpopts.IgnoreFields(Preferences{}, "LastPlayed")
		if diff := cmp.Diff(want, got, ignoreTime); diff != "" {
			t.Errorf("preferences mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("RecordGame", func(t *testing.T) {
		for _, r := range []Result{{Won: true}, {Won: true}, {Draw: true}, {}} {
			if err := store.RecordGame(r); err != nil {
				t.Fatal(err)
			}
		}

		stats, err := store.LoadStats()
		if err != nil {
			t.Fatal(err)
		}
		want := &Stats{
			GamesPlayed:   4,
			Wins:          2,
			Losses:        1,
			Draws:         1,
			CurrentStreak: 0,
			LongestStreak: 2,
		}
		if diff := cmp.Diff(want, stats); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
	})
}
