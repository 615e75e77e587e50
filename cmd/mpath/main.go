package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/milk9111/motionpath/logging"
	"github.com/milk9111/motionpath/motion"
	"github.com/milk9111/motionpath/preview"
	"github.com/milk9111/motionpath/scenes"
	"github.com/milk9111/motionpath/session"
	"github.com/rs/zerolog"
)

func main() {
	scenePath := flag.String("scene", "demo.yaml", "scene file (looked up in scenes/, falls back to the embedded copy)")
	settingsPath := flag.String("settings", "", "settings file (yaml); defaults when empty")
	ops := flag.String("op", "object", "comma-separated entry points: bone, vertex, empty, object, cleanup")
	active := flag.String("active", "", "object to make active, name or name:bone")
	plotPath := flag.String("plot", "", "write a preview image of the generated paths (png, svg, pdf)")
	plane := flag.String("plane", "xy", "preview plane: xy, xz or yz")
	watch := flag.Bool("watch", false, "keep running and re-apply on settings and scene changes")
	logLevel := flag.String("log-level", "info", "trace, debug, info, warn or error")
	logFile := flag.String("log-file", "", "also write logs to this file")
	flag.Parse()

	var file *os.File
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		file = f
	}
	var log zerolog.Logger
	if file != nil {
		log = logging.New(*logLevel, os.Stderr, file)
	} else {
		log = logging.New(*logLevel, os.Stderr, nil)
	}

	previewPlane, err := preview.ParsePlane(*plane)
	if err != nil {
		log.Fatal().Err(err).Msg("bad flag")
	}

	s, err := session.New(*scenePath, *settingsPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start session")
	}

	apply := func() bool {
		if *active != "" {
			if err := s.Select(*active); err != nil {
				log.Error().Err(err).Msg("select")
				return false
			}
		}
		ok := runOps(s, *ops, log)
		if *plotPath != "" {
			if err := preview.Save(s.World, *plotPath, preview.Options{Title: s.Scene.Name, Plane: previewPlane}); err != nil {
				log.Error().Err(err).Msg("preview")
				return false
			}
			log.Info().Str("file", *plotPath).Msg("preview written")
		}
		return ok
	}

	ok := apply()
	if !*watch {
		if !ok {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := watchAndApply(ctx, s, *settingsPath, apply, log); err != nil {
		log.Fatal().Err(err).Msg("watch")
	}
}

// runOps reports false when any entry point ended in Rejected.
func runOps(s *session.Session, ops string, log zerolog.Logger) bool {
	ok := true
	for _, op := range strings.Split(ops, ",") {
		op = strings.TrimSpace(op)
		if op == "" {
			continue
		}
		st, err := s.Run(op)
		if err != nil {
			log.Error().Err(err).Msg("run")
			ok = false
			continue
		}
		fmt.Println(st)
		for _, evt := range s.World.Events().Drain() {
			log.Debug().Str("event", evt.Type).Msg("world event")
		}
		if st.State == motion.StateRejected {
			ok = false
		}
	}
	return ok
}

func watchAndApply(ctx context.Context, s *session.Session, settingsPath string, apply func() bool, log zerolog.Logger) error {
	dirs := []string{}
	if info, err := os.Stat(scenes.Dir); err == nil && info.IsDir() {
		dirs = append(dirs, scenes.Dir)
		if info, err := os.Stat(filepath.Join(scenes.Dir, "scripts")); err == nil && info.IsDir() {
			dirs = append(dirs, filepath.Join(scenes.Dir, "scripts"))
		}
	}
	if settingsPath != "" {
		dirs = append(dirs, filepath.Dir(settingsPath))
	}
	if len(dirs) == 0 {
		return fmt.Errorf("nothing to watch: no %s/ directory and no settings file", scenes.Dir)
	}

	w, err := scenes.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	defer w.Close()
	log.Info().Strs("dirs", dirs).Msg("watching")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher")
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Debug().Str("file", path).Msg("changed")
			if err := s.HandleChange(path); err != nil {
				log.Error().Err(err).Str("file", path).Msg("reload failed")
				continue
			}
			if settingsPath != "" && filepath.Base(path) == filepath.Base(settingsPath) {
				// live rescale only; generated paths stay
				log.Info().Float64("radius", s.Store.Radius()).Msg("settings reloaded")
				continue
			}
			apply()
		}
	}
}
