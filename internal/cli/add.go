package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/amterp/ra"

	kanerr "github.com/amterp/kanpad/internal/errors"
	"github.com/amterp/kanpad/internal/model"
)

func registerAdd(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("add")
	cmd.SetDescription("Add a new card to the end of a list")

	ctx.AddList, _ = ra.NewString("list").
		SetOptional(true).
		SetUsage("List ID, title or slug (prompts, or the first list, when omitted)").
		Register(cmd)

	ctx.AddTitle, _ = ra.NewString("title").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Card title (default: New Card)").
		Register(cmd)

	ctx.AddWeight, _ = ra.NewString("weight").
		SetShort("w").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Card weight, 0 to 10 (default: 0)").
		Register(cmd)

	ctx.AddUsed, _ = parent.RegisterCmd(cmd)
}

func runAdd(listRef, title, weightArg string, interactive bool) {
	weight, hasWeight, err := parseWeight(weightArg)
	if err != nil {
		Fatal(err)
	}

	app := mustApp(interactive)
	defer app.Close()
	ctx := context.Background()

	list, err := app.ListResolver.Resolve(app.Board.Snapshot(), listRef, interactive)
	if err != nil {
		app.Fatal(err)
	}

	m, err := app.Board.AddCard(ctx, list.ID)
	if err != nil {
		app.Fatal(err)
	}
	if !m.Changed {
		app.Fatal(kanerr.ListNotFound(list.ID))
	}

	card := *m.Card
	if title != "" || hasWeight {
		if title != "" {
			card.Title = title
		}
		if hasWeight {
			card.Weight = weight
		}
		if _, err := app.Board.UpdateCard(ctx, card); err != nil {
			app.Fatal(err)
		}
	}

	PrintSuccess("Added %q to %s (%s)", card.Title, RenderBold(list.Title), RenderID(card.ID))
}

// parseWeight parses an optional weight flag. An empty value means unset.
func parseWeight(s string) (weight int, set bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	weight, err = strconv.Atoi(s)
	if err != nil {
		return 0, false, kanerr.InvalidField("weight", "must be a whole number between 0 and 10")
	}
	if err := model.ValidateWeight(weight); err != nil {
		return 0, false, err
	}
	return weight, true, nil
}
