package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the trivia server"`
	Pack    PackCmd          `cmd:"" help:"Work with question pack files"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("triviaforbots"),
		kong.Description("Server-authoritative buzzer trivia for humans and bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
