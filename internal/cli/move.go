package cli

import (
	"context"

	"github.com/amterp/ra"

	kanerr "github.com/amterp/kanpad/internal/errors"
)

func registerMove(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("move")
	cmd.SetDescription("Move a card to another list or position")

	ctx.MoveCard, _ = ra.NewString("card").
		SetUsage("Card ID, unique ID prefix or list:N").
		Register(cmd)

	ctx.MoveList, _ = ra.NewString("list").
		SetOptional(true).
		SetUsage("Destination list (default: the card's own list)").
		Register(cmd)

	ctx.MovePosition, _ = ra.NewInt("position").
		SetShort("p").
		SetOptional(true).
		SetDefault(0).
		SetFlagOnly(true).
		SetUsage("1-based position in the destination list (default: end)").
		Register(cmd)

	ctx.MoveUsed, _ = parent.RegisterCmd(cmd)
}

func runMove(cardRef, listRef string, position int, interactive bool) {
	if position < 0 {
		Fatal(kanerr.InvalidField("position", "must be 1 or greater"))
	}

	app := mustApp(interactive)
	defer app.Close()

	board := app.Board.Snapshot()
	ref, err := app.CardResolver.Resolve(board, cardRef)
	if err != nil {
		app.Fatal(err)
	}

	destID := ref.ListID
	if listRef != "" {
		dest, err := app.ListResolver.Resolve(board, listRef, false)
		if err != nil {
			app.Fatal(err)
		}
		destID = dest.ID
	}

	m, err := app.Board.MoveCard(context.Background(), ref.ListID, ref.Index, destID, destinationIndex(position))
	if err != nil {
		app.Fatal(err)
	}

	destTitle := m.Board.Lists[m.Board.ListIndex(destID)].Title
	if !m.Changed {
		PrintInfo("%q is already there", ref.Card.Title)
		return
	}
	PrintSuccess("Moved %q to %s", ref.Card.Title, RenderBold(destTitle))
}

// destinationIndex converts a 1-based position to a board index.
// Zero means the end of the list.
func destinationIndex(position int) int {
	if position <= 0 {
		return -1
	}
	return position - 1
}
