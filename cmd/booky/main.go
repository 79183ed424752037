package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/booky/cmd/booky/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCmd(cli.Open).ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
