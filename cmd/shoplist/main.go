package main

import (
	"context"
	"time"

	"github.com/niksmo/shoplist/config"
	"github.com/niksmo/shoplist/internal/app"
	"github.com/niksmo/shoplist/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	shoplist := app.New(sigCtx, cfg)

	shoplist.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	shoplist.Close(ctx)
}
