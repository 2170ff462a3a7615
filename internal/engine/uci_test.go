package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

// fakeEngine runs a scripted UCI peer over pipes and returns the client
// wired to it.
func fakeEngine(t *testing.T, onGo func(out io.Writer)) *Client {
	t.Helper()

	cmdR, cmdW := io.Pipe()     // client commands
	replyR, replyW := io.Pipe() // engine replies

	go func() {
		sc := bufio.NewScanner(cmdR)
		for sc.Scan() {
			switch cmd := sc.Text(); {
			case cmd == "uci":
				fmt.Fprintln(replyW, "id name FakeFish")
				fmt.Fprintln(replyW, "id author nobody")
				fmt.Fprintln(replyW, "uciok")
			case cmd == "isready":
				fmt.Fprintln(replyW, "readyok")
			case strings.HasPrefix(cmd, "go"):
				onGo(replyW)
			case cmd == "quit":
				replyW.Close()
				return
			}
		}
	}()

	c := newClient(cmdW, replyR)
	t.Cleanup(func() { cmdW.Close() })
	return c
}

func TestHandshake(t *testing.T) {
	c := fakeEngine(t, func(out io.Writer) {})

	if err := c.handshake(); err != nil {
		t.Fatalf("handshake failed: %v", err)
	}
	if got := c.Name(); got != "FakeFish" {
		t.Errorf("expected engine name FakeFish, got %q", got)
	}
}

func TestRequestMove(t *testing.T) {
	c := fakeEngine(t, func(out io.Writer) {
		fmt.Fprintln(out, "info depth 1 score cp 20")
		fmt.Fprintln(out, "bestmove e2e4 ponder e7e5")
	})
	if err := c.handshake(); err != nil {
		t.Fatal(err)
	}

	mv, err := c.RequestMove("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if mv != "e2e4" {
		t.Errorf("expected e2e4, got %q", mv)
	}
}

func TestRequestMoveTimeout(t *testing.T) {
	c := fakeEngine(t, func(out io.Writer) {
		// Never answer the search.
	})
	if err := c.handshake(); err != nil {
		t.Fatal(err)
	}
	c.grace = 20 * time.Millisecond

	_, err := c.RequestMove("8/8/8/8/8/8/8/8 w - - 0 1", 10*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestRequestMoveNoMove(t *testing.T) {
	c := fakeEngine(t, func(out io.Writer) {
		fmt.Fprintln(out, "bestmove 0000")
	})
	if err := c.handshake(); err != nil {
		t.Fatal(err)
	}

	_, err := c.RequestMove("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 10*time.Millisecond)
	if !errors.Is(err, ErrNoMove) {
		t.Fatalf("expected ErrNoMove, got %v", err)
	}
}

func TestParseBestMove(t *testing.T) {
	cases := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{"bestmove e2e4", "e2e4", false},
		{"bestmove e7e8q", "e7e8q", false},
		{"bestmove g1f3 ponder b8c6", "g1f3", false},
		{"bestmove 0000", "", true},
		{"bestmove", "", true},
		{"info depth 12", "", true},
		{"bestmove e2e4e5", "", true},
	}

	for _, tc := range cases {
		got, err := parseBestMove(tc.line)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseBestMove(%q): expected error, got %q", tc.line, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBestMove(%q): %v", tc.line, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseBestMove(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}
