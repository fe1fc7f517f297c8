package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// debounce window for editors that emit bursts of write events.
const settleDelay = 250 * time.Millisecond

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Re-render docs and models whenever the schema changes",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			log := newLogger(cmd.Bool("debug"))
			defer log.Sync() //nolint:errcheck
			return watch(ctx, cmd, cfg, log)
		},
	}
}

func watch(ctx context.Context, cmd *cli.Command, cfg *Config, log *zap.Logger) error {
	path := firstNonEmpty(cmd.String("schema"), cfg.Schema, "schema.prisma")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Watch the directory, not the file: editors replace files on
	// save and the watch would be lost with the old inode.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	rerun := func() {
		if err := renderDocs(cmd, cfg, log); err != nil {
			log.Warn("docs render failed", zap.Error(err))
		}
		if err := generateModels(ctx, cmd, cfg, log); err != nil {
			log.Warn("model generation failed", zap.Error(err))
		}
	}
	log.Info("watching schema", zap.String("path", path))
	rerun()

	var settle *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if settle != nil {
				settle.Stop()
			}
			settle = time.AfterFunc(settleDelay, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			log.Debug("schema changed, re-running")
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}
