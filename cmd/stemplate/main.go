// Command stemplate expands ${name} placeholders in a text template.
//
// The template comes from a file argument or stdin, variables from a YAML
// or JSON file and the process environment:
//
//	stemplate --vars vars.yaml template.txt
//	echo 'Hello, ${NAME:-world}' | stemplate
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/randalmurphal/stemplate/pkg/stemplate"
	"github.com/randalmurphal/stemplate/pkg/stemplate/vars"
)

func main() {
	cmd := &cli.Command{
		Name:      "stemplate",
		Usage:     "expand placeholders in a text template",
		ArgsUsage: "[template-file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "start",
				Value: stemplate.DefaultStartDelimiter,
				Usage: "start delimiter token",
			},
			&cli.StringFlag{
				Name:  "end",
				Value: stemplate.DefaultEndDelimiter,
				Usage: "end delimiter token",
			},
			&cli.StringFlag{
				Name:    "vars",
				Aliases: []string{"f"},
				Usage:   "YAML or JSON file with variable bindings",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Value: stemplate.DefaultMaxDepth,
				Usage: "recursion depth cap for re-expansion",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "fail when variables are missing or includes unreadable",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write output to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log render details to stderr",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	text, err := readTemplate(cmd.Args().First())
	if err != nil {
		return err
	}

	var bindings map[string]string
	if path := cmd.String("vars"); path != "" {
		bindings, err = vars.FromFile(path)
		if err != nil {
			return err
		}
	}

	opts := []stemplate.Option{
		stemplate.WithMaxDepth(cmd.Int("max-depth")),
	}
	if cmd.Bool("verbose") {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		opts = append(opts, stemplate.WithLogger(logger))
	}

	t := stemplate.NewDelimit(text, cmd.String("start"), cmd.String("end"), opts...)

	var out string
	if cmd.Bool("strict") {
		out, err = t.RenderStrict(bindings)
		if err != nil {
			return err
		}
	} else {
		out = t.Render(bindings)
	}

	if path := cmd.String("out"); path != "" {
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	fmt.Println(out)
	return nil
}

// readTemplate reads the template from the given file, or stdin when no
// argument (or "-") is supplied.
func readTemplate(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(data), nil
}
