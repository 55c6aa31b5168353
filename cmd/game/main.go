package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/redxchap93/sindi/internal/audio"
	"github.com/redxchap93/sindi/internal/game"
	"github.com/redxchap93/sindi/internal/sharecard"
)

func main() {
	var (
		configPath = flag.String("config", "sindi.json", "path to the JSON config file")
		seed       = flag.Int64("seed", 0, "RNG seed override (0 = config, then wall clock)")
		mute       = flag.Bool("mute", false, "start with sound muted")
		fullscreen = flag.Bool("fullscreen", false, "start fullscreen")
	)
	flag.Parse()

	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	snd := audio.NewManager()
	if err := snd.Init(); err != nil {
		// No audio device is not fatal; the game runs silent.
		log.Printf("audio unavailable: %v", err)
	}
	snd.SetMuted(*mute)

	st := game.New(cfg)
	log.Printf("sindi: grid %dx%d, seed %d", st.GridWidth(), st.GridHeight(), cfg.Seed)

	ebiten.SetWindowTitle("Sindi")
	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetFullscreen(*fullscreen)
	if err := ebiten.RunGame(game.NewEbitenGame(st, cfg, snd, sharecard.Write)); err != nil {
		log.Fatal(err)
	}
}
