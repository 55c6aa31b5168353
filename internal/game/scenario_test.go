package game

import (
	"strings"
	"testing"
)

// dumpEvents prints the event tail and summary so `go test -v` shows what
// the run actually did.
func dumpEvents(t *testing.T, s *State) {
	t.Helper()
	t.Log("events: " + s.events.Summary())
	for _, line := range strings.Split(strings.TrimRight(s.events.Format(15), "\n"), "\n") {
		if line != "" {
			t.Log(line)
		}
	}
}

// --- Scenario: full game under the chase driver ---

func TestScenario_FullGameUnderChaseDriver(t *testing.T) {
	t.Log("=== TestScenario_FullGameUnderChaseDriver ===")
	t.Log("--- Setup: default 40x30 board, seed 2025, greedy food chaser ---")

	cfg := DefaultConfig()
	cfg.Seed = 2025
	s := New(cfg)

	for s.tick < 5000 && !s.over {
		chaseFood(s)
		s.Step()
	}
	dumpEvents(t, s)
	t.Logf("final: T=%d score=%d level=%d length=%d over=%v", s.tick, s.score, s.level, len(s.snake), s.over)

	if s.tick == 0 {
		t.Fatal("driver never stepped")
	}
	if s.over {
		e, ok := s.events.Last("game", "over")
		if !ok {
			t.Fatal("game over without a game over event")
		}
		cause := strings.Fields(e.Value)[0]
		if cause != "wall" && cause != "obstacle" && cause != "self" {
			t.Errorf("unknown cause of death %q", e.Value)
		}
	}
	if s.highScore != s.score {
		t.Errorf("high=%d score=%d; within one run they must match", s.highScore, s.score)
	}
	if s.score < (s.level-1)*levelStep {
		t.Errorf("level %d reached with only %d points", s.level, s.score)
	}
	if want := initialSnakeLen + s.events.Count("food", "eaten"); len(s.snake) != want {
		t.Errorf("length %d, want %d (one growth per meal)", len(s.snake), want)
	}

	report := s.RunReport()
	if !strings.Contains(report, "seed=2025") {
		t.Errorf("report does not name the seed:\n%s", report)
	}
}

// --- Scenario: invincibility carries the snake through an obstacle ---

func TestScenario_InvinciblePassThrough(t *testing.T) {
	t.Log("=== TestScenario_InvinciblePassThrough ===")
	t.Log("--- Setup: obstacle two cells ahead, invincibility pickup on the way ---")

	s := newQuietState(404)
	parkFood(s)
	s.powerUps = []PowerUp{{Cell: Cell{X: 11, Y: 15}, Kind: PowerUpInvincible}}
	s.obstacles = []Cell{{X: 13, Y: 15}}

	s.Step() // collect
	s.Step() // (12,15)
	s.Step() // through the obstacle
	dumpEvents(t, s)

	if s.Over() {
		t.Fatal("died on the obstacle despite invincibility")
	}
	if s.Head() != (Cell{X: 13, Y: 15}) {
		t.Fatalf("head = %s, want the obstacle cell (13,15)", s.Head())
	}
	if !s.cellInObstacles(s.Head()) {
		t.Error("pass-through must leave the obstacle on the board")
	}
	if s.InvincibleTicks() != DefaultInvincibilityTicks-2 {
		t.Errorf("timer = %d, want %d after two protected ticks",
			s.InvincibleTicks(), DefaultInvincibilityTicks-2)
	}

	t.Log("--- Contrast: the same approach without the pickup is fatal ---")
	c := newQuietState(404)
	parkFood(c)
	c.obstacles = []Cell{{X: 13, Y: 15}}
	c.Step()
	c.Step()
	c.Step()
	if !c.Over() {
		t.Fatal("expected obstacle death without invincibility")
	}
	if !c.events.HasEntry("game", "over", "obstacle at (13,15)") {
		t.Error("missing obstacle death event in the contrast run")
	}
}

// --- Scenario: a snapshot seed replays the same run ---

func TestScenario_SnapshotSeedReplaysRun(t *testing.T) {
	t.Log("=== TestScenario_SnapshotSeedReplaysRun ===")
	t.Log("--- Setup: play a run, then rebuild it from the snapshot's seed ---")

	play := func(seed int64) *State {
		cfg := DefaultConfig()
		cfg.Seed = seed
		s := New(cfg)
		for s.tick < 2000 && !s.over {
			chaseFood(s)
			s.Step()
		}
		return s
	}

	first := play(31415)
	snap := first.Snapshot()
	t.Logf("first run: T=%d score=%d", snap.Ticks, snap.Score)

	replay := play(snap.Seed)
	if replay.Tick() != snap.Ticks || replay.Score() != snap.Score {
		t.Errorf("replay differs: T=%d score=%d, want T=%d score=%d",
			replay.Tick(), replay.Score(), snap.Ticks, snap.Score)
	}
	checkCells(t, replay.Snake(), snap.Snake, "replayed snake")
}
