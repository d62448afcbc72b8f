package cli

import (
	"context"
	"os"

	"github.com/amterp/ra"

	"github.com/amterp/kanpad/internal/service"
	"github.com/amterp/kanpad/internal/store"
)

func registerInit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("init")
	cmd.SetDescription("Create a .kanpad board in the current directory")

	ctx.InitUsed, _ = parent.RegisterCmd(cmd)
}

func runInit() {
	cwd, err := os.Getwd()
	if err != nil {
		Fatal(err)
	}

	globalStore := store.NewGlobalStore()
	cfg := LoadConfig(globalStore)

	root, err := service.NewInitService(globalStore).Initialize(context.Background(), cwd, cfg.Storage)
	if err != nil {
		Fatal(err)
	}

	PrintSuccess("Initialized kanpad in %s", RenderMuted(root))
	PrintInfo("Storage backend: %s", cfg.Storage.Backend)
}
