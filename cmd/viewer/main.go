package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/motionpath/logging"
	"github.com/milk9111/motionpath/session"
)

func main() {
	scenePath := flag.String("scene", "demo.yaml", "scene file in scenes/ (embedded copy when absent)")
	settingsPath := flag.String("settings", "", "settings file (yaml), watched for live changes")
	logLevel := flag.String("log-level", "info", "trace, debug, info, warn or error")
	watch := flag.Bool("watch", true, "reload on scene and settings changes")
	flag.Parse()

	log := logging.New(*logLevel, os.Stderr, nil)

	s, err := session.New(*scenePath, *settingsPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start session")
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowTitle("motionpath - " + s.Scene.Name)

	game := NewGame(s, log, *watch)
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("viewer exited")
	}
}
