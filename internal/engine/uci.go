// Package engine talks to an external UCI chess engine process. The core
// treats it as an opaque oracle: it gets a position and a time budget, and
// answers with one move in UCI notation. Legality checking stays with the
// rules layer.
package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

var (
	// ErrUnavailable means the engine process could not be started or has
	// stopped answering. Surfaced once at launch, or after a failed retry.
	ErrUnavailable = errors.New("engine unavailable")
	// ErrTimeout means the engine missed its reply deadline.
	ErrTimeout = errors.New("engine timed out")
	// ErrNoMove means the engine answered "bestmove 0000" (no legal move).
	ErrNoMove = errors.New("engine returned no move")
)

const (
	handshakeTimeout = 5 * time.Second
	defaultGrace     = 2 * time.Second
	quitWait         = 2 * time.Second
)

// Client drives one UCI engine subprocess. A single request is in flight at
// a time; the interaction loop additionally never issues a second request
// while it is waiting for the first.
type Client struct {
	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan string
	grace time.Duration
	name  string
}

// New starts the engine at path and performs the UCI handshake. A missing or
// unresponsive executable is reported as ErrUnavailable so the caller can
// fall back to a human-only game.
func New(path string) (*Client, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %v", ErrUnavailable, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrUnavailable, err)
	}
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", ErrUnavailable, path, err)
	}

	c := newClient(stdin, stdout)
	c.cmd = cmd
	if err := c.handshake(); err != nil {
		c.Close()
		return nil, err
	}
	log.Printf("[ENGINE] %s ready (%s)", c.Name(), path)
	return c, nil
}

// newClient wires the protocol loop over raw streams. Tests drive it with
// pipes; New attaches the subprocess.
func newClient(stdin io.WriteCloser, stdout io.Reader) *Client {
	c := &Client{
		stdin: stdin,
		lines: make(chan string, 64),
		grace: defaultGrace,
	}
	go c.readLines(stdout)
	return c
}

func (c *Client) readLines(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		c.lines <- strings.TrimSpace(sc.Text())
	}
	close(c.lines)
}

func (c *Client) send(cmd string) error {
	if _, err := fmt.Fprintf(c.stdin, "%s\n", cmd); err != nil {
		return fmt.Errorf("%w: write %q: %v", ErrUnavailable, cmd, err)
	}
	return nil
}

// waitFor consumes engine output until a line starting with prefix arrives.
func (c *Client) waitFor(prefix string, timeout time.Duration) (string, error) {
	deadline := time.After(timeout)
	for {
		select {
		case line, ok := <-c.lines:
			if !ok {
				return "", fmt.Errorf("%w: engine closed its output", ErrUnavailable)
			}
			if c.name == "" && strings.HasPrefix(line, "id name ") {
				c.name = strings.TrimPrefix(line, "id name ")
			}
			if strings.HasPrefix(line, prefix) {
				return line, nil
			}
		case <-deadline:
			return "", ErrTimeout
		}
	}
}

func (c *Client) handshake() error {
	if err := c.send("uci"); err != nil {
		return err
	}
	if _, err := c.waitFor("uciok", handshakeTimeout); err != nil {
		return fmt.Errorf("uci handshake: %w", err)
	}
	return c.ready()
}

func (c *Client) ready() error {
	if err := c.send("isready"); err != nil {
		return err
	}
	if _, err := c.waitFor("readyok", handshakeTimeout); err != nil {
		return fmt.Errorf("isready: %w", err)
	}
	return nil
}

// Name returns the engine's self-reported name, empty before the handshake.
func (c *Client) Name() string {
	if c.name == "" {
		return "UCI engine"
	}
	return c.name
}

// RequestMove asks for the best move in the given position. The reply must
// arrive within budget plus a fixed grace period. This call blocks; the
// interaction loop runs it on a worker goroutine.
func (c *Client) RequestMove(fen string, budget time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send("position fen " + fen); err != nil {
		return "", err
	}
	if err := c.send(fmt.Sprintf("go movetime %d", budget.Milliseconds())); err != nil {
		return "", err
	}

	line, err := c.waitFor("bestmove", budget+c.grace)
	if errors.Is(err, ErrTimeout) {
		// Stop the overdue search and swallow its eventual bestmove so it
		// cannot be mistaken for the answer to the next request.
		_ = c.send("stop")
		_, _ = c.waitFor("bestmove", c.grace)
		return "", ErrTimeout
	}
	if err != nil {
		return "", err
	}
	return parseBestMove(line)
}

// NewGameReset tells the engine a fresh game is starting.
func (c *Client) NewGameReset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send("ucinewgame"); err != nil {
		return err
	}
	return c.ready()
}

// Close asks the engine to quit and reaps the process, killing it if it
// ignores the request.
func (c *Client) Close() error {
	_ = c.send("quit")
	_ = c.stdin.Close()
	if c.cmd == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(quitWait):
		_ = c.cmd.Process.Kill()
		return <-done
	}
}

// parseBestMove extracts the move from a "bestmove e2e4 [ponder …]" line.
func parseBestMove(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "bestmove" {
		return "", fmt.Errorf("malformed bestmove line %q", line)
	}
	mv := fields[1]
	if mv == "0000" || mv == "(none)" {
		return "", ErrNoMove
	}
	if len(mv) < 4 || len(mv) > 5 {
		return "", fmt.Errorf("malformed move %q", mv)
	}
	return mv, nil
}
