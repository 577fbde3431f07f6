package main

import (
	"context"

	"github.com/scott-cotton/cli"

	_ "github.com/signadot/hconf/hparams"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
