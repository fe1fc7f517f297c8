package main

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/syssam/prismatic/compiler/gen"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate Go model source from the schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output directory",
			},
			&cli.StringFlag{
				Name:    "package",
				Aliases: []string{"p"},
				Usage:   "Go package name (default: directory name)",
			},
		},
		Action: runGenerate,
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	log := newLogger(cmd.Bool("debug"))
	defer log.Sync() //nolint:errcheck
	return generateModels(ctx, cmd, cfg, log)
}

// generateModels is shared between the generate and watch commands.
func generateModels(ctx context.Context, cmd *cli.Command, cfg *Config, log *zap.Logger) error {
	schema, registry, err := pipeline(cmd, cfg, log)
	if err != nil {
		return err
	}
	target := firstNonEmpty(cmd.String("out"), cfg.Generate.Out, "models")
	opts := []gen.Option{}
	if pkg := firstNonEmpty(cmd.String("package"), cfg.Generate.Package); pkg != "" {
		opts = append(opts, gen.WithPackage(pkg))
	}
	g, err := gen.NewGenerator(schema, registry, target, opts...)
	if err != nil {
		return err
	}
	if err := g.Generate(ctx); err != nil {
		return err
	}
	log.Info("models generated", zap.String("dir", target))
	return nil
}
