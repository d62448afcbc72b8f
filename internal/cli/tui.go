package cli

import (
	"context"

	"github.com/amterp/ra"

	"github.com/amterp/kanpad/internal/tui"
)

func registerTui(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("tui")
	cmd.SetDescription("Open the interactive terminal board")

	ctx.TuiUsed, _ = parent.RegisterCmd(cmd)
}

func runTui() {
	app := mustApp(false)
	defer app.Close()

	if err := tui.Run(context.Background(), app.Board, app.Theme); err != nil {
		app.Fatal(err)
	}
}
