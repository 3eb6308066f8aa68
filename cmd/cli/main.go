// Command cli is the interactive dashboard for the ship agency API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/shipagency/internal/buildinfo"
	"github.com/dmitrijs2005/shipagency/internal/client/cli"
	"github.com/dmitrijs2005/shipagency/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "cli:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Server: %s\n", cfg.ServerURL)
	app.Run(ctx)
	return nil
}
