package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/syssam/prismatic/compiler/infer"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Print the classified relationship document as JSON",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			log := newLogger(cmd.Bool("debug"))
			defer log.Sync() //nolint:errcheck

			schema, registry, err := pipeline(cmd, cfg, log)
			if err != nil {
				return err
			}
			out, err := infer.NewDocument(schema, registry).MarshalIndent()
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		},
	}
}
