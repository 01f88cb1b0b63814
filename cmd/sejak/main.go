package main

import (
	"context"

	"github.com/faizmokh/sejak/internal/cli"
)

func main() {
	ctx := context.Background()
	cli.Main(ctx)
}
