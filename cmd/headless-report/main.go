package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/redxchap93/sindi/internal/game"
	"github.com/redxchap93/sindi/internal/sharecard"
)

type runStats struct {
	runIndex int
	seed     int64

	ticks  int
	score  int
	high   int
	level  int
	length int
	cause  string

	foodEaten        int
	obstaclesEnd     int
	powerUpsSpawned  int
	firstPowerUpTick int
	firstLevelTick   int
	pickups          map[string]int

	cardPath string
	report   string
}

func main() {
	var runs int
	var maxTicks int
	var seedBase int64
	var turnEvery int
	var report bool
	var cardDir string
	var verbose bool

	flag.IntVar(&runs, "runs", 10, "number of headless runs")
	flag.IntVar(&maxTicks, "max-ticks", 20000, "tick limit per run")
	flag.Int64Var(&seedBase, "seed", 42, "engine seed for run 1; later runs add 1 each")
	flag.IntVar(&turnEvery, "turn-every", 6, "driver requests a random perpendicular turn every N ticks (0 = never)")
	flag.BoolVar(&report, "report", false, "print the full run report after each run")
	flag.StringVar(&cardDir, "card-dir", "", "write a share card PNG per run into this directory")
	flag.BoolVar(&verbose, "v", false, "record per-tick snake positions in the event log")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if maxTicks <= 0 {
		fmt.Println("error: -max-ticks must be > 0")
		return
	}
	if turnEvery < 0 {
		fmt.Println("error: -turn-every must be >= 0")
		return
	}
	if cardDir != "" {
		if err := os.MkdirAll(cardDir, 0o755); err != nil {
			fmt.Printf("error: card dir: %v\n", err)
			return
		}
	}

	fmt.Printf("=== Sindi Headless Report ===\n")
	fmt.Printf("runs=%d max_ticks=%d seed=%d turn_every=%d\n\n", runs, maxTicks, seedBase, turnEvery)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)
		stats := runOne(i+1, seed, maxTicks, turnEvery, verbose, report, cardDir)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runOne plays one full game under the scripted driver: every turnEvery
// ticks it requests a uniformly random perpendicular turn. The driver's
// randomness is a separate stream from the engine's, so policy changes
// never disturb engine determinism for a given seed.
func runOne(runIndex int, seed int64, maxTicks, turnEvery int, verbose, report bool, cardDir string) runStats {
	cfg := game.DefaultConfig()
	cfg.Seed = seed
	st := game.New(cfg)
	st.SetVerboseEvents(verbose)

	driver := rand.New(rand.NewSource(seed ^ 0x5eed)) // #nosec G404 -- scripted input policy
	for st.Tick() < maxTicks && !st.Over() {
		if turnEvery > 0 && st.Tick()%turnEvery == turnEvery-1 {
			st.SetHeading(randomPerpendicular(driver, st.Heading()))
		}
		st.Step()
	}

	entries := st.Events().Entries()
	pickups := map[string]int{}
	for _, e := range st.Events().Filter("powerup", "collected") {
		pickups[e.Value]++
	}

	cause := "survived"
	if e, ok := st.Events().Last("game", "over"); ok {
		cause = e.Value
	}

	stats := runStats{
		runIndex:         runIndex,
		seed:             seed,
		ticks:            st.Tick(),
		score:            st.Score(),
		high:             st.HighScore(),
		level:            st.Level(),
		length:           len(st.Snake()),
		cause:            cause,
		foodEaten:        st.Events().Count("food", "eaten"),
		obstaclesEnd:     len(st.Obstacles()),
		powerUpsSpawned:  st.Events().Count("powerup", "spawned"),
		firstPowerUpTick: firstTick(entries, "powerup", "collected"),
		firstLevelTick:   firstTick(entries, "score", "level_up"),
		pickups:          pickups,
	}

	if report {
		stats.report = st.RunReport()
	}
	if cardDir != "" {
		path := filepath.Join(cardDir, fmt.Sprintf("run-%02d-seed-%d.png", runIndex, seed))
		if err := sharecard.Write(path, st.Snapshot()); err != nil {
			fmt.Printf("error: share card for run %d: %v\n", runIndex, err)
		} else {
			stats.cardPath = path
		}
	}
	return stats
}

// randomPerpendicular picks one of the two headings at right angles to h.
func randomPerpendicular(rng *rand.Rand, h game.Heading) game.Heading {
	var options [2]game.Heading
	switch h {
	case game.HeadingUp, game.HeadingDown:
		options = [2]game.Heading{game.HeadingLeft, game.HeadingRight}
	default:
		options = [2]game.Heading{game.HeadingUp, game.HeadingDown}
	}
	return options[rng.Intn(2)]
}

func firstTick(entries []game.Event, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("ticks=%d score=%d level=%d length=%d cause=%s\n",
		rs.ticks, rs.score, rs.level, rs.length, rs.cause)
	fmt.Printf("food_eaten=%d obstacles_end=%d power_ups_spawned=%d first_pickup_tick=%d first_level_tick=%d\n",
		rs.foodEaten, rs.obstaclesEnd, rs.powerUpsSpawned, rs.firstPowerUpTick, rs.firstLevelTick)
	fmt.Printf("pickups: speed=%d invincible=%d bonus_score=%d\n",
		rs.pickups["speed"], rs.pickups["invincible"], rs.pickups["bonus_score"])
	if rs.cardPath != "" {
		fmt.Printf("card=%s\n", rs.cardPath)
	}
	if rs.report != "" {
		fmt.Println(rs.report)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	scores := make([]int, 0, len(all))
	ticks := make([]int, 0, len(all))
	totalFood := 0
	totalSpawned := 0
	pickupTotals := map[string]int{}
	levelDist := map[string]int{}
	causeDist := map[string]int{}
	bestRun := 0

	for i, rs := range all {
		scores = append(scores, rs.score)
		ticks = append(ticks, rs.ticks)
		totalFood += rs.foodEaten
		totalSpawned += rs.powerUpsSpawned
		for kind, n := range rs.pickups {
			pickupTotals[kind] += n
		}
		levelDist[fmt.Sprintf("L%d", rs.level)]++
		causeDist[causeWord(rs.cause)]++
		if rs.score > all[bestRun].score {
			bestRun = i
		}
	}

	minScore, maxScore, avgScore := intStats(scores)
	minTicks, maxTicks, avgTicks := intStats(ticks)

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("score: min=%d avg=%.1f max=%d\n", minScore, avgScore, maxScore)
	fmt.Printf("ticks: min=%d avg=%.1f max=%d\n", minTicks, avgTicks, maxTicks)
	fmt.Printf("food_eaten_per_run=%.1f power_ups_spawned_per_run=%.1f\n",
		avg(totalFood, len(all)), avg(totalSpawned, len(all)))
	fmt.Printf("pickups_total: speed=%d invincible=%d bonus_score=%d\n",
		pickupTotals["speed"], pickupTotals["invincible"], pickupTotals["bonus_score"])
	fmt.Printf("levels: %s\n", distString(levelDist))
	fmt.Printf("causes: %s\n", distString(causeDist))
	fmt.Printf("best_run: %d (seed=%d score=%d ticks=%d)\n",
		all[bestRun].runIndex, all[bestRun].seed, all[bestRun].score, all[bestRun].ticks)
}

// causeWord strips the position detail off a game-over value, so
// "wall at (40,15)" aggregates under "wall".
func causeWord(cause string) string {
	if i := strings.IndexByte(cause, ' '); i > 0 {
		return cause[:i]
	}
	return cause
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func intStats(vals []int) (min int, max int, mean float64) {
	if len(vals) == 0 {
		return 0, 0, 0
	}
	min, max = vals[0], vals[0]
	sum := 0
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return min, max, float64(sum) / float64(len(vals))
}

func distString(dist map[string]int) string {
	if len(dist) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, dist[k]))
	}
	return strings.Join(parts, " ")
}
