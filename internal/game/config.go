package game

import (
	"encoding/json"
	"fmt"
	"os"
)

// Defaults for Config fields left zero. An 800x600 window at 20px cells
// gives the 40x30 grid the gameplay constants were tuned on.
const (
	DefaultScreenWidth          = 800
	DefaultScreenHeight         = 600
	DefaultCellSize             = 20
	DefaultPowerUpChance        = 0.3
	DefaultObstacleGrowthChance = 0.01
	DefaultInvincibilityTicks   = 300
)

// Config carries the construction-time knobs of a game. Gameplay rule
// values (points per food, level step, speed bounds) are engine constants,
// not configuration.
type Config struct {
	ScreenWidth          int     `json:"screen_width"`
	ScreenHeight         int     `json:"screen_height"`
	CellSize             int     `json:"cell_size"`
	PowerUpChance        float64 `json:"power_up_chance"`
	ObstacleGrowthChance float64 `json:"obstacle_growth_chance"`
	InvincibilityTicks   int     `json:"invincibility_ticks"`
	Seed                 int64   `json:"seed"` // 0 = derive from wall clock at startup
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		ScreenWidth:          DefaultScreenWidth,
		ScreenHeight:         DefaultScreenHeight,
		CellSize:             DefaultCellSize,
		PowerUpChance:        DefaultPowerUpChance,
		ObstacleGrowthChance: DefaultObstacleGrowthChance,
		InvincibilityTicks:   DefaultInvincibilityTicks,
	}
}

// fillDefaults replaces zero fields with their defaults so a sparse config
// file only has to name what it changes.
func (c *Config) fillDefaults() {
	if c.ScreenWidth == 0 {
		c.ScreenWidth = DefaultScreenWidth
	}
	if c.ScreenHeight == 0 {
		c.ScreenHeight = DefaultScreenHeight
	}
	if c.CellSize == 0 {
		c.CellSize = DefaultCellSize
	}
	if c.PowerUpChance == 0 {
		c.PowerUpChance = DefaultPowerUpChance
	}
	if c.ObstacleGrowthChance == 0 {
		c.ObstacleGrowthChance = DefaultObstacleGrowthChance
	}
	if c.InvincibilityTicks == 0 {
		c.InvincibilityTicks = DefaultInvincibilityTicks
	}
}

// LoadConfig reads a JSON config file. A missing file is not an error: the
// defaults are written to path for next time and returned.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		if werr := SaveConfig(path, cfg); werr != nil {
			return Config{}, fmt.Errorf("write default config: %w", werr)
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as indented JSON.
func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Validate rejects configurations the engine cannot start on.
func (c Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("config: screen %dx%d must be positive", c.ScreenWidth, c.ScreenHeight)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("config: cell_size %d must be positive", c.CellSize)
	}
	if c.ScreenWidth%c.CellSize != 0 || c.ScreenHeight%c.CellSize != 0 {
		return fmt.Errorf("config: cell_size %d must divide screen %dx%d evenly",
			c.CellSize, c.ScreenWidth, c.ScreenHeight)
	}
	gw := c.ScreenWidth / c.CellSize
	gh := c.ScreenHeight / c.CellSize
	if gw < 2*initialSnakeLen+2 || gh < 4 {
		return fmt.Errorf("config: grid %dx%d too small for the starting snake", gw, gh)
	}
	if c.PowerUpChance < 0 || c.PowerUpChance > 1 {
		return fmt.Errorf("config: power_up_chance %.3f outside [0,1]", c.PowerUpChance)
	}
	if c.ObstacleGrowthChance < 0 || c.ObstacleGrowthChance > 1 {
		return fmt.Errorf("config: obstacle_growth_chance %.3f outside [0,1]", c.ObstacleGrowthChance)
	}
	if c.InvincibilityTicks < 0 {
		return fmt.Errorf("config: invincibility_ticks %d must not be negative", c.InvincibilityTicks)
	}
	return nil
}
