package main

import (
	"os"

	"meetgrid/core/logger"
	"meetgrid/core/server"

	"github.com/urfave/cli/v2"
)

// @title meetgrid API
// @version 1.0
// @description Group scheduling: create an event, collect availability on a date x hour grid, pick the best time.

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Organizer token returned on event creation. Example: "Bearer {token}"

// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token

func main() {
	app := &cli.App{
		Name:  "meetgrid",
		Usage: "Event scheduling availability grid API",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server",
				Action: func(c *cli.Context) error {
					return server.Run()
				},
			},
			{
				Name:  "migrate",
				Usage: "Apply the database schema and exit",
				Action: func(c *cli.Context) error {
					return server.Migrate(c.Context)
				},
			},
		},
		Action: func(c *cli.Context) error {
			return server.Run()
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("run server error", err)
		os.Exit(1)
	}
}
