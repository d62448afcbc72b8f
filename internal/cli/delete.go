package cli

import (
	"context"
	"fmt"

	"github.com/amterp/ra"
)

func registerDelete(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("delete")
	cmd.SetDescription("Delete a card")

	ctx.DeleteCard, _ = ra.NewString("card").
		SetUsage("Card ID, unique ID prefix or list:N").
		Register(cmd)

	ctx.DeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.DeleteUsed, _ = parent.RegisterCmd(cmd)
}

func runDelete(cardRef string, force, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	ref, err := app.CardResolver.Resolve(app.Board.Snapshot(), cardRef)
	if err != nil {
		app.Fatal(err)
	}
	card := ref.Card

	if !force {
		if !interactive {
			app.Fatal(fmt.Errorf("deleting card %q (%s) requires --force in non-interactive mode", card.Title, card.ID))
		}

		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Delete card %q (%s)?", card.Title, card.ID),
			false,
		)
		if err != nil {
			app.Fatal(err)
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return
		}
	}

	if _, err := app.Board.DeleteCard(context.Background(), card.ID); err != nil {
		app.Fatal(err)
	}

	PrintSuccess("Deleted card %q (%s)", card.Title, RenderID(card.ID))
}
