package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
)

// Preferences stores user settings.
type Preferences struct {
	EnginePath     string    `json:"engine_path"`
	MoveTimeMs     int       `json:"move_time_ms"`
	ShowLegalMoves bool      `json:"show_legal_moves"`
	LastPlayed     time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		MoveTimeMs:     100,
		ShowLegalMoves: true,
	}
}

// Stats stores game statistics.
type Stats struct {
	GamesPlayed   int `json:"games_played"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	Draws         int `json:"draws"`
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// WinRate returns the win rate as a percentage (0-100).
func (s *Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// Result is the outcome of a completed game from the player's side.
type Result struct {
	Won  bool
	Draw bool
}

// Store wraps BadgerDB for persistent storage.
type Store struct {
	db *badger.DB
}

// NewStore opens the database in the per-user data directory.
func NewStore() (*Store, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return newStoreAt(dbDir)
}

func newStoreAt(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves user preferences.
func (s *Store) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads user preferences, returning defaults if not found.
func (s *Store) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})
	return prefs, err
}

// SaveStats saves game statistics.
func (s *Store) SaveStats(stats *Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads game statistics, returning empty stats if not found.
func (s *Store) LoadStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})
	return stats, err
}

// RecordGame records a completed game and updates statistics.
func (s *Store) RecordGame(result Result) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	switch {
	case result.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	case result.Won:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestStreak {
			stats.LongestStreak = stats.CurrentStreak
		}
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}
	return s.SaveStats(stats)
}
