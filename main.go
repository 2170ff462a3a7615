// Chess Companion - play against a UCI engine, built with Ebitengine.
package main

import (
	"flag"
	"log"
	"os/exec"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"chesscompanion/internal/engine"
	"chesscompanion/internal/storage"
	"chesscompanion/internal/ui"
)

func main() {
	enginePath := flag.String("engine", "", "path to a UCI engine binary (default: stockfish on PATH)")
	moveTime := flag.Int("movetime", 0, "engine time per move in milliseconds")
	assetDir := flag.String("assets", "", "directory with piece SVGs")
	flag.Parse()

	store, err := storage.NewStore()
	if err != nil {
		log.Printf("[STORE] unavailable, running without persistence: %v", err)
		store = nil
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		if p, err := store.LoadPreferences(); err == nil {
			prefs = p
		} else {
			log.Printf("[STORE] load preferences: %v", err)
		}
	}

	// Flags override stored preferences.
	if *enginePath != "" {
		prefs.EnginePath = *enginePath
	}
	if *moveTime > 0 {
		prefs.MoveTimeMs = *moveTime
	}
	if prefs.EnginePath == "" {
		if path, err := exec.LookPath("stockfish"); err == nil {
			prefs.EnginePath = path
		}
	}

	var eng *engine.Client
	if prefs.EnginePath != "" {
		eng, err = engine.New(prefs.EnginePath)
		if err != nil {
			log.Printf("[ENGINE] %s failed to start, starting without AI: %v", prefs.EnginePath, err)
			eng = nil
		}
	} else {
		log.Printf("[ENGINE] no engine configured, starting without AI")
	}

	if store != nil {
		if err := store.SavePreferences(prefs); err != nil {
			log.Printf("[STORE] save preferences: %v", err)
		}
	}

	game := ui.NewGame(ui.Config{
		Engine:    eng,
		Store:     store,
		MoveTime:  time.Duration(prefs.MoveTimeMs) * time.Millisecond,
		AssetDir:  *assetDir,
		ShowHints: prefs.ShowLegalMoves,
	})
	defer game.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("Chess Companion")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
