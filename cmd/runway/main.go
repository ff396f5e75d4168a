package main

import (
	"context"

	"github.com/Nice-2-Meet-U/runway/cmd/cli"
	"github.com/Nice-2-Meet-U/runway/internal/tracing"
	"github.com/Nice-2-Meet-U/runway/internal/util"
)

func main() {
	util.SetLogLevel()

	_, shutdown := tracing.InitOtel()
	defer shutdown()

	cli.Invoke(context.Background())
}
