package main

import (
	"fmt"

	"github.com/lox/triviaforbots/internal/pack"
)

// PackCmd groups question pack subcommands
type PackCmd struct {
	Validate PackValidateCmd `cmd:"" help:"Validate a question pack file"`
}

// PackValidateCmd checks a pack file against the board rules
type PackValidateCmd struct {
	File string `kong:"arg,help='Pack file to validate'"`
}

func (c *PackValidateCmd) Run() error {
	pk, err := pack.Load(c.File)
	if err != nil {
		return err
	}

	fmt.Printf("%s: ok (%d categories, %d daily doubles)\n",
		pk.Title, len(pk.Categories), len(pk.DailyDoubles))
	return nil
}
