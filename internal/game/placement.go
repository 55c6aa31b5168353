package game

import "fmt"

// excludeCells flattens entity groups into one membership set for a
// placement draw.
func excludeCells(groups ...[]Cell) map[Cell]bool {
	m := make(map[Cell]bool)
	for _, g := range groups {
		for _, c := range g {
			m[c] = true
		}
	}
	return m
}

// placeRandom draws uniformly from the grid until it finds a cell not in
// excluded. The search is bounded: after 4x the grid area random draws it
// falls back to enumerating the free cells and picking one uniformly, so a
// nearly full board still terminates. ok is false only when no free cell
// exists at all.
func (s *State) placeRandom(excluded map[Cell]bool) (Cell, bool) {
	attempts := 4 * s.gridW * s.gridH
	for i := 0; i < attempts; i++ {
		c := Cell{X: s.rng.Intn(s.gridW), Y: s.rng.Intn(s.gridH)}
		if !excluded[c] {
			return c, true
		}
	}
	var free []Cell
	for y := 0; y < s.gridH; y++ {
		for x := 0; x < s.gridW; x++ {
			c := Cell{X: x, Y: y}
			if !excluded[c] {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		return Cell{}, false
	}
	return free[s.rng.Intn(len(free))], true
}

// generateFood places food on a cell clear of the snake and the obstacles.
// Power-ups are deliberately not excluded: food landing on a power-up cell
// is legal, and the head collects both on the same tick.
func (s *State) generateFood() {
	c, ok := s.placeRandom(excludeCells(s.snake, s.obstacles))
	if !ok {
		// No free cell; the previous food stays where it was.
		s.events.Add(s.tick, "food", "placement_failed", "grid full", 0)
		return
	}
	s.food = c
}

// generateObstacles tops the obstacle set up to maxCount, never past the
// board cap. Existing obstacles stay put; new ones avoid the snake, the
// food, the power-ups and each other.
func (s *State) generateObstacles(maxCount int) {
	if maxCount > s.maxObstacles {
		maxCount = s.maxObstacles
	}
	excl := excludeCells(s.snake, []Cell{s.food}, s.obstacles, s.powerUpCells())
	for len(s.obstacles) < maxCount {
		c, ok := s.placeRandom(excl)
		if !ok {
			s.events.Add(s.tick, "obstacle", "placement_failed", "grid full", 0)
			return
		}
		s.obstacles = append(s.obstacles, c)
		excl[c] = true
		s.events.Add(s.tick, "obstacle", "spawned", c.String(), float64(len(s.obstacles)))
	}
}

// maybeGeneratePowerUp rolls cfg.PowerUpChance and, on success, spawns one
// power-up of a uniformly random kind on a cell clear of everything,
// including other power-ups.
func (s *State) maybeGeneratePowerUp() {
	if s.rng.Float64() >= s.cfg.PowerUpChance {
		return
	}
	excl := excludeCells(s.snake, []Cell{s.food}, s.obstacles, s.powerUpCells())
	c, ok := s.placeRandom(excl)
	if !ok {
		s.events.Add(s.tick, "powerup", "placement_failed", "grid full", 0)
		return
	}
	kind := PowerUpKind(s.rng.Intn(int(powerUpKindCount)))
	s.powerUps = append(s.powerUps, PowerUp{Cell: c, Kind: kind})
	s.events.Add(s.tick, "powerup", "spawned", fmt.Sprintf("%s at %s", kind, c), 0)
}

func (s *State) powerUpCells() []Cell {
	cells := make([]Cell, len(s.powerUps))
	for i, p := range s.powerUps {
		cells[i] = p.Cell
	}
	return cells
}
