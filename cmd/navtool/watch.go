package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/walkbounds/internal/logger"
	"github.com/Faultbox/walkbounds/internal/scene"
)

func (a *app) cmdWatch(args []string) error {
	if len(args) < 1 {
		return usageError("navtool watch <scene>")
	}
	s, err := a.loadScene(args[0])
	if err != nil {
		return err
	}

	w, err := scene.NewWatcher(s.Dirs()...)
	if err != nil {
		return err
	}
	defer w.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	errs := w.Errors
	log := logger.Named("watch")
	log.Info("watching scene", zap.String("scene", s.Name), zap.Strings("dirs", s.Dirs()))

	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !s.Uses(path) {
				continue
			}
			next, err := scene.Reload(a.assets, s, a.cfg.Navigation)
			if err != nil {
				log.Warn("reload failed, keeping previous scene",
					zap.String("file", path), zap.Error(err))
				continue
			}
			s = next
			log.Info("scene reloaded",
				zap.String("scene", s.Name),
				zap.String("file", path),
				zap.Int("walkable", s.WalkMap.WalkableCount()))
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn("watcher error", zap.Error(err))
		case <-sig:
			return nil
		}
	}
}
