package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"

	"tchat/internal/app"
	"tchat/internal/config"
	"tchat/internal/session"
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	flag.Parse()

	sessionName := session.Resolve(*sessionFlag)
	if err := session.ValidateName(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(session.ConfigPath())
	if err != nil {
		cfg = &config.Config{}
		cfg.Composer.AttachmentMaxKB = config.DefaultAttachmentMaxKB
	}

	fx.New(
		fx.NopLogger,
		app.Module(app.Params{SessionName: sessionName, Config: cfg}),
	).Run()
}
