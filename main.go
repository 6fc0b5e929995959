package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/speedrun-hq/wethcycle/pkg/config"
	"github.com/speedrun-hq/wethcycle/pkg/cycler"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
	"github.com/urfave/cli/v2"
)

var (
	optionEnvFile = &cli.StringFlag{
		Name:    "env-file",
		Usage:   "path to the .env file holding the configuration",
		EnvVars: []string{"WETHCYCLE_ENV_FILE"},
	}
)

func main() {
	app := &cli.App{
		Name:  "wethcycle",
		Usage: "Unwrap and wrap random amounts of WETH at random intervals",
		Flags: []cli.Flag{optionEnvFile},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run the withdrawal and deposit loops until both complete",
				Action: run,
			},
			{
				Name:   "report",
				Usage:  "Print the current balances without sending transactions",
				Action: report,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func run(c *cli.Context) error {
	service, l, err := setup(c)
	if err != nil {
		return err
	}
	defer service.Close()

	// Set up context with cancellation on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info("Starting the WETH cycler...")
	if err := service.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	if ctx.Err() != nil {
		l.Notice("Received termination signal, stopped gracefully")
	}
	return nil
}

func report(c *cli.Context) error {
	service, _, err := setup(c)
	if err != nil {
		return err
	}
	defer service.Close()

	service.Report(c.Context)
	return nil
}

func setup(c *cli.Context) (*cycler.Service, logger.Logger, error) {
	var envFiles []string
	if path := c.String(optionEnvFile.Name); path != "" {
		envFiles = append(envFiles, path)
	}

	// Load configuration from the .env file and environment variables
	cfg, err := config.LoadConfig(envFiles...)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.NewStdLogger(cfg.LoggerConfig.Coloring, cfg.LoggerConfig.Level)

	service, err := cycler.NewService(c.Context, cfg, l)
	if err != nil {
		return nil, nil, err
	}
	return service, l, nil
}
