package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug overlays and logging")
	configPath := flag.String("config", "", "YAML config merged over the embedded defaults")
	pagePath := flag.String("page", "", "YAML page document (embedded default when empty)")
	prefill := flag.Bool("prefill", false, "start with the chute full instead of live balls")
	watch := flag.Bool("watch", false, "reload -config and -page when they change on disk")
	seed := flag.Int64("seed", 0, "random seed for ball placement (0 = time based)")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(defaultWidth, defaultHeight)
	ebiten.SetWindowTitle("ballpit")

	game, err := NewGame(Options{
		ConfigPath: *configPath,
		PagePath:   *pagePath,
		Debug:      *debug,
		Prefill:    *prefill,
		Watch:      *watch,
		Seed:       *seed,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
