package game

// PowerUpKind tags the effect a power-up grants when collected.
type PowerUpKind int

const (
	PowerUpSpeed PowerUpKind = iota
	PowerUpInvincible
	PowerUpBonusScore

	powerUpKindCount // must stay last
)

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpSpeed:
		return "speed"
	case PowerUpInvincible:
		return "invincible"
	case PowerUpBonusScore:
		return "bonus_score"
	default:
		return "unknown"
	}
}

// PowerUp is a collectible occupying one grid cell. It has no lifetime of
// its own: it stays on the board until the snake's head reaches it.
type PowerUp struct {
	Cell Cell
	Kind PowerUpKind
}
