package main

import (
	"fmt"
	"io"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/prlc/compiler"
	"github.com/pontaoski/prlc/config"
	"github.com/pontaoski/prlc/toolchain"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Config{
		Input:    c.Args().First(),
		Output:   c.String("output"),
		AsmOnly:  c.Bool("asm"),
		PrintAST: c.Bool("ast"),
	}
	if c.Args().Len() > 1 {
		return cfg, fmt.Errorf("only one input file can be compiled, got %d", c.Args().Len())
	}
	if err := cfg.Resolve(); err != nil {
		return cfg, err
	}

	path, required := config.ProjectFile, false
	if c.IsSet("config") {
		path, required = c.String("config"), true
	}
	tc, err := config.LoadToolchain(path, required)
	if err != nil {
		return cfg, err
	}
	cfg.Toolchain = tc

	return cfg, nil
}

type prlc struct {
	stderr io.Writer
	trace  bool
}

func (p *prlc) app() *cli.App {
	stderr := p.stderr
	return &cli.App{
		Name:      "prlc",
		Usage:     "compile a program to a Linux x86-64 executable",
		ArgsUsage: "FILE",
		Writer:    stderr,
		ErrWriter: stderr,
		// errors are reported by run
		ExitErrHandler: func(context *cli.Context, err error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "executable path (default: input file stem)",
			},
			&cli.BoolFlag{
				Name:    "asm",
				Aliases: []string{"S"},
				Usage:   "only write the .asm file",
			},
			&cli.BoolFlag{
				Name:    "ast",
				Aliases: []string{"s"},
				Usage:   "print the parsed functions and data",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "toolchain settings file",
				Value: config.ProjectFile,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "debug logging",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print a stack trace with errors",
			},
		},
		Before: func(c *cli.Context) error {
			p.trace = c.Bool("trace")
			capnslog.SetFormatter(capnslog.NewPrettyFormatter(stderr, c.Bool("verbose")))
			if c.Bool("verbose") {
				capnslog.SetGlobalLogLevel(capnslog.DEBUG)
			} else {
				capnslog.SetGlobalLogLevel(capnslog.INFO)
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return compiler.Compile(cfg, toolchain.NewDriver(cfg.Toolchain))
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "write a default " + config.ProjectFile,
				Action: func(c *cli.Context) error {
					return config.WriteDefault(config.ProjectFile)
				},
			},
		},
	}
}

func (p *prlc) run(args []string) int {
	err := p.app().Run(args)
	if err == nil {
		return 0
	}

	if p.trace {
		fmt.Fprint(p.stderr, tracerr.SprintSourceColor(err))
		return 1
	}
	fmt.Fprintf(p.stderr, "%s: %s\n", args[0], tracerr.Unwrap(err))
	return 1
}

func main() {
	p := &prlc{stderr: os.Stderr}
	os.Exit(p.run(os.Args))
}
