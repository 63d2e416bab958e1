package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/sentry/config"
	"github.com/milk9111/sentry/logging"
	"github.com/milk9111/sentry/prefabs"
)

func main() {
	configDir := flag.String("config", ".", "directory holding sentry.yaml")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		settings.LogLevel = "debug"
	}
	logger := logging.New(logging.Options{Level: settings.LogLevel, Console: settings.LogConsole})
	prefabs.Dir = settings.PrefabDir

	game, err := NewGame(settings, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := game.LayoutF(0, 0)
	ebiten.SetWindowSize(int(w), int(h))
	ebiten.SetWindowTitle("sentry")
	ebiten.SetTPS(settings.TPS)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
