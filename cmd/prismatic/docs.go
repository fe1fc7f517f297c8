package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/syssam/prismatic/compiler/infer"
	"github.com/syssam/prismatic/docs"
)

func docsCommand() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "Render the schema reference as Markdown",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output file (\"-\" for stdout)",
			},
			&cli.StringFlag{
				Name:  "pinned",
				Usage: "entity to list before the alphabetical rest",
			},
		},
		Action: runDocs,
	}
}

func runDocs(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	log := newLogger(cmd.Bool("debug"))
	defer log.Sync() //nolint:errcheck
	return renderDocs(cmd, cfg, log)
}

// renderDocs is shared between the docs and watch commands.
func renderDocs(cmd *cli.Command, cfg *Config, log *zap.Logger) error {
	schema, registry, err := pipeline(cmd, cfg, log)
	if err != nil {
		return err
	}
	renderer := &docs.Renderer{
		Title:  cfg.Docs.Title,
		Pinned: firstNonEmpty(cmd.String("pinned"), cfg.Docs.Pinned),
	}
	out := renderer.Render(infer.NewDocument(schema, registry))

	target := firstNonEmpty(cmd.String("out"), cfg.Docs.Out, "SCHEMA.md")
	if target == "-" {
		fmt.Fprint(os.Stdout, out)
		return nil
	}
	if err := os.WriteFile(target, []byte(out), 0o644); err != nil {
		return err
	}
	log.Info("documentation written", zap.String("path", target))
	return nil
}
