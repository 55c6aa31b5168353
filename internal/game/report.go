package game

import (
	"fmt"
	"strings"
)

// reportEventLines is how much of the event tail the report shows.
const reportEventLines = 12

// RunReport renders the current game as a fixed-width text block, suitable
// for the clipboard or a terminal. It works on a live or a finished run.
func (s *State) RunReport() string {
	var b strings.Builder

	state := "running"
	if s.over {
		state = "over"
	}

	fmt.Fprintf(&b, "--- Sindi run report ---\n")
	fmt.Fprintf(&b, "seed=%d grid=%dx%d cell=%dpx\n", s.seed, s.gridW, s.gridH, s.cfg.CellSize)
	fmt.Fprintf(&b, "tick=%d state=%s\n", s.tick, state)
	fmt.Fprintf(&b, "score=%d high=%d level=%d speed=%d\n", s.score, s.highScore, s.level, s.speed)
	fmt.Fprintf(&b, "snake=%d cells head=%s heading=%s\n", len(s.snake), s.snake[0], s.heading)
	fmt.Fprintf(&b, "obstacles=%d/%d power_ups=%d food=%s\n",
		len(s.obstacles), s.maxObstacles, len(s.powerUps), s.food)
	if s.invincible {
		fmt.Fprintf(&b, "invincible for %d more ticks\n", s.invTicks)
	}

	fmt.Fprintf(&b, "\nevents: %s\n", s.events.Summary())
	if tail := s.events.Format(reportEventLines); tail != "" {
		fmt.Fprintf(&b, "last %d:\n%s", reportEventLines, tail)
	}
	return b.String()
}
