package main

import (
	"io"
	"os"

	"campus-events/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	// .env 不存在時不視為錯誤
	_ = godotenv.Load()

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logger.WithComponent("cli").Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "campus",
		Usage:  "Browse, post and register for campus events on this machine.",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Value:   "campus.db",
				Usage:   "Path of the local SQLite store.",
				EnvVars: []string{"LOCAL_DB_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error).",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			return logger.SetLevel(c.String("log-level"))
		},
		Commands: []*cli.Command{
			eventsCommand(),
			postCommand(),
			deleteCommand(),
			registerCommand(),
			ticketsCommand(),
			attendeesCommand(),
			exportCommand(),
			interestsCommand(),
		},
	}
}
