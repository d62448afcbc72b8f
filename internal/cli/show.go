package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerShow(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("show")
	cmd.SetDescription("Display the board, or one card")

	ctx.ShowCard, _ = ra.NewString("card").
		SetOptional(true).
		SetUsage("Card ID, unique ID prefix or list:N").
		Register(cmd)

	ctx.ShowJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.ShowYaml, _ = ra.NewBool("yaml").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as YAML").
		Register(cmd)

	ctx.ShowUsed, _ = parent.RegisterCmd(cmd)
}

func runShow(cardRef string, jsonOutput, yamlOutput bool) {
	if jsonOutput && yamlOutput {
		Fatal(fmt.Errorf("--json and --yaml cannot be used together"))
	}

	app := mustApp(false)
	defer app.Close()

	board := app.Board.Snapshot()

	var out any = board
	if cardRef != "" {
		ref, err := app.CardResolver.Resolve(board, cardRef)
		if err != nil {
			app.Fatal(err)
		}
		out = ref.Card
		if !jsonOutput && !yamlOutput {
			list := board.Lists[board.ListIndex(ref.ListID)]
			fmt.Println(Box(formatCard(ref.Card, list.Title)))
			return
		}
	}

	switch {
	case jsonOutput:
		if err := printJson(out); err != nil {
			app.Fatal(err)
		}
	case yamlOutput:
		if err := printYaml(out); err != nil {
			app.Fatal(err)
		}
	default:
		fmt.Print(formatBoard(board))
	}
}
