// Command prismatic parses a Prisma-dialect schema, infers the shape
// of every relationship, and feeds the classified output to the
// Markdown renderer and the Go model generator.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/syssam/prismatic/compiler/infer"
	"github.com/syssam/prismatic/compiler/load"
	"github.com/syssam/prismatic/compiler/parse"
)

func main() {
	root := &cli.Command{
		Name:  "prismatic",
		Usage: "Infer schema relationships; render docs and Go models",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "schema",
				Aliases: []string{"s"},
				Usage:   "path to the schema file",
				Sources: cli.EnvVars("PRISMATIC_SCHEMA"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to prismatic.yaml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log dropped relationship candidates",
			},
		},
		Commands: []*cli.Command{
			inspectCommand(),
			docsCommand(),
			generateCommand(),
			watchCommand(),
		},
	}
	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger. Debug mode surfaces the engine's
// per-candidate observations.
func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// pipeline runs parse and inference for the resolved schema path.
func pipeline(cmd *cli.Command, cfg *Config, log *zap.Logger) (*load.Schema, *infer.Registry, error) {
	path := firstNonEmpty(cmd.String("schema"), cfg.Schema, "schema.prisma")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading schema: %w", err)
	}
	schema, err := parse.Parse(path, data)
	if err != nil {
		return nil, nil, err
	}
	registry, err := infer.Infer(schema, infer.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	return schema, registry, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
