package game

import (
	"fmt"
	"math/rand"
)

// Gameplay rule constants. Fixed by the rules, not configuration.
const (
	foodScore  = 10
	bonusScore = 50
	levelStep  = 50 // points per level

	baseSpeed       = 10
	speedFormulaCap = 20 // cap on the score-derived speed
	speedBoostCap   = 25 // hard cap including Speed power-up boosts
	speedBoost      = 3

	initialSnakeLen = 3

	// Obstacle cap: one per obstacleCellsPerSlot cells, never more than
	// obstacleCapMax. 40x30 hits the 20 ceiling.
	obstacleCapMax       = 20
	obstacleCellsPerSlot = 60
)

// State is the complete simulation state of one game. Step owns all
// mutation; the render and input layers only read through accessors. All
// randomness flows through the single rng, so a fixed seed and input
// sequence replay tick for tick.
//
// Not safe for concurrent use. The desktop front end runs it on the update
// goroutine; the headless driver runs it on main.
type State struct {
	cfg  Config
	seed int64
	rng  *rand.Rand

	gridW int
	gridH int

	tick       int
	snake      []Cell // head first
	heading    Heading
	pending    Heading
	hasPending bool

	food      Cell
	obstacles []Cell
	powerUps  []PowerUp

	score      int
	highScore  int
	level      int
	speed      int // cells per second, the front end paces off it
	invincible bool
	invTicks   int

	over bool

	maxObstacles int
	events       *EventLog
}

// New builds a game from cfg. cfg is trusted as given; callers that accept
// external input run Validate first. The grid is ScreenWidth/CellSize by
// ScreenHeight/CellSize.
func New(cfg Config) *State {
	s := &State{
		cfg:    cfg,
		seed:   cfg.Seed,
		rng:    rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- game randomness, not crypto
		gridW:  cfg.ScreenWidth / cfg.CellSize,
		gridH:  cfg.ScreenHeight / cfg.CellSize,
		events: NewEventLog(false),
	}
	s.maxObstacles = s.gridW * s.gridH / obstacleCellsPerSlot
	if s.maxObstacles > obstacleCapMax {
		s.maxObstacles = obstacleCapMax
	}
	s.start()
	s.events.Add(0, "game", "start", fmt.Sprintf("grid=%dx%d seed=%d", s.gridW, s.gridH, s.seed), 0)
	return s
}

// Reset starts a fresh run on the same grid. The RNG stream continues
// rather than rewinding, so consecutive runs differ, and the session high
// score carries over.
func (s *State) Reset() {
	s.start()
	s.events.Add(0, "game", "reset", fmt.Sprintf("high=%d", s.highScore), float64(s.highScore))
}

// start lays out the opening position: a three-cell snake heading right
// from the left quarter of the grid, fresh food, and half the obstacle cap
// already on the board.
func (s *State) start() {
	headX := s.gridW / 4
	headY := s.gridH / 2
	s.snake = s.snake[:0]
	for i := 0; i < initialSnakeLen; i++ {
		s.snake = append(s.snake, Cell{X: headX - i, Y: headY})
	}
	s.heading = HeadingRight
	s.hasPending = false
	s.obstacles = s.obstacles[:0]
	s.powerUps = s.powerUps[:0]
	s.score = 0
	s.level = 1
	s.speed = baseSpeed
	s.invincible = false
	s.invTicks = 0
	s.over = false
	s.tick = 0
	s.generateFood()
	s.generateObstacles(s.maxObstacles / 2)
}

// SetHeading requests a direction change to apply on the next Step. A
// request that reverses the snake's current travel is rejected silently,
// judged against the heading it is actually moving on, not a pending
// request. The last accepted request before a Step wins.
func (s *State) SetHeading(h Heading) {
	if h == s.heading.Opposite() {
		return
	}
	s.pending = h
	s.hasPending = true
}

// Step advances the simulation one tick. Once the game is over it is a
// no-op until Reset. Callers own the pacing; the engine only counts ticks.
func (s *State) Step() {
	if s.over {
		return
	}
	s.tick++

	// 1. Heading: fold in any pending request from the input layer.
	if s.hasPending {
		s.heading = s.pending
		s.hasPending = false
	}
	dx, dy := s.heading.Delta()
	newHead := Cell{X: s.snake[0].X + dx, Y: s.snake[0].Y + dy}

	// 2. Wall: leaving the grid ends the game before any other effect.
	if !s.inBounds(newHead) {
		s.gameOver("wall", newHead)
		return
	}

	// 3. Obstacle: fatal unless invincibility is active.
	if !s.invincible && s.cellInObstacles(newHead) {
		s.gameOver("obstacle", newHead)
		return
	}

	// 4. Self: checked against the pre-move body. Invincibility does not
	// suppress this one.
	if s.cellInSnake(newHead) {
		s.gameOver("self", newHead)
		return
	}

	// 5. Move: prepend the new head.
	s.snake = append(s.snake, Cell{})
	copy(s.snake[1:], s.snake)
	s.snake[0] = newHead

	// 6. Food: grow and rescore, or advance the tail.
	if newHead == s.food {
		s.addScore(foodScore)
		s.events.Add(s.tick, "food", "eaten", newHead.String(), float64(s.score))
		s.generateFood()
		// Score-derived speed. A Speed boost folds back to the formula here.
		s.speed = baseSpeed + s.score/levelStep
		if s.speed > speedFormulaCap {
			s.speed = speedFormulaCap
		}
		s.maybeGeneratePowerUp()
		if s.score >= s.level*levelStep {
			s.level++
			s.events.Add(s.tick, "score", "level_up", fmt.Sprintf("level=%d", s.level), float64(s.level))
		}
	} else {
		s.snake = s.snake[:len(s.snake)-1]
	}

	// 7. Invincibility counts down before pickups, so a collect this tick
	// keeps its full duration.
	if s.invTicks > 0 {
		s.invTicks--
		if s.invTicks == 0 {
			s.invincible = false
			s.events.Add(s.tick, "powerup", "invincibility_end", "", 0)
		}
	}

	// 8. Power-up under the new head, if any. Power-up cells are unique,
	// so at most one can match.
	for i, p := range s.powerUps {
		if p.Cell == newHead {
			s.powerUps = append(s.powerUps[:i], s.powerUps[i+1:]...)
			s.applyPowerUp(p.Kind)
			break
		}
	}

	// 9. Ambient obstacle growth: a small chance each tick of one more
	// obstacle, while under the board cap.
	if len(s.obstacles) < s.maxObstacles && s.rng.Float64() < s.cfg.ObstacleGrowthChance {
		s.generateObstacles(len(s.obstacles) + 1)
	}

	s.events.AddVerbose(s.tick, "snake", "head", newHead.String(), float64(len(s.snake)))
}

func (s *State) applyPowerUp(k PowerUpKind) {
	switch k {
	case PowerUpSpeed:
		s.speed += speedBoost
		if s.speed > speedBoostCap {
			s.speed = speedBoostCap
		}
	case PowerUpInvincible:
		// The flag mirrors the counter, so a zero-duration grant is inert.
		s.invTicks = s.cfg.InvincibilityTicks
		s.invincible = s.invTicks > 0
	case PowerUpBonusScore:
		s.addScore(bonusScore)
	}
	s.events.Add(s.tick, "powerup", "collected", k.String(), 0)
}

func (s *State) addScore(points int) {
	s.score += points
	if s.score > s.highScore {
		s.highScore = s.score
	}
}

func (s *State) gameOver(cause string, at Cell) {
	s.over = true
	s.events.Add(s.tick, "game", "over", fmt.Sprintf("%s at %s", cause, at), float64(s.score))
}

func (s *State) inBounds(c Cell) bool {
	return c.X >= 0 && c.X < s.gridW && c.Y >= 0 && c.Y < s.gridH
}

func (s *State) cellInObstacles(c Cell) bool {
	for _, o := range s.obstacles {
		if o == c {
			return true
		}
	}
	return false
}

func (s *State) cellInSnake(c Cell) bool {
	for _, sc := range s.snake {
		if sc == c {
			return true
		}
	}
	return false
}

// --- Accessors ---
//
// Slice accessors copy so callers can hold results across Steps.

func (s *State) Tick() int { return s.tick }

func (s *State) Score() int { return s.score }

func (s *State) HighScore() int { return s.highScore }

func (s *State) Level() int { return s.level }

func (s *State) Speed() int { return s.speed }

func (s *State) Invincible() bool { return s.invincible }

func (s *State) InvincibleTicks() int { return s.invTicks }

func (s *State) Over() bool { return s.over }

func (s *State) GridWidth() int { return s.gridW }

func (s *State) GridHeight() int { return s.gridH }

func (s *State) Seed() int64 { return s.seed }

func (s *State) Heading() Heading { return s.heading }

func (s *State) Food() Cell { return s.food }

func (s *State) Head() Cell { return s.snake[0] }

func (s *State) Snake() []Cell {
	out := make([]Cell, len(s.snake))
	copy(out, s.snake)
	return out
}

func (s *State) Obstacles() []Cell {
	out := make([]Cell, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

func (s *State) PowerUps() []PowerUp {
	out := make([]PowerUp, len(s.powerUps))
	copy(out, s.powerUps)
	return out
}

// Events exposes the run's event log for reporting and triggers.
func (s *State) Events() *EventLog { return s.events }

// SetVerboseEvents toggles per-tick event chatter, for headless tracing.
func (s *State) SetVerboseEvents(v bool) { s.events.SetVerbose(v) }

// Snapshot captures the visible state as plain values. Slices are copies;
// the caller may keep them indefinitely.
type Snapshot struct {
	Seed            int64
	GridW           int
	GridH           int
	Ticks           int
	Score           int
	HighScore       int
	Level           int
	Speed           int
	Invincible      bool
	InvincibleTicks int
	Over            bool
	Snake           []Cell
	Food            Cell
	Obstacles       []Cell
	PowerUps        []PowerUp
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Seed:            s.seed,
		GridW:           s.gridW,
		GridH:           s.gridH,
		Ticks:           s.tick,
		Score:           s.score,
		HighScore:       s.highScore,
		Level:           s.level,
		Speed:           s.speed,
		Invincible:      s.invincible,
		InvincibleTicks: s.invTicks,
		Over:            s.over,
		Snake:           s.Snake(),
		Food:            s.food,
		Obstacles:       s.Obstacles(),
		PowerUps:        s.PowerUps(),
	}
}
