package cli

import (
	"context"
	"fmt"

	"github.com/amterp/ra"

	"github.com/amterp/kanpad/internal/editform"
	"github.com/amterp/kanpad/internal/editor"
	kanerr "github.com/amterp/kanpad/internal/errors"
	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/prompt"
	"github.com/amterp/kanpad/internal/util"
)

func registerEdit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("edit")
	cmd.SetDescription("Edit an existing card (opens a form when no flags are given)")

	ctx.EditCard, _ = ra.NewString("card").
		SetUsage("Card ID, unique ID prefix or list:N").
		Register(cmd)

	ctx.EditTitle, _ = ra.NewString("title").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New title").
		Register(cmd)

	ctx.EditWeight, _ = ra.NewString("weight").
		SetShort("w").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New weight, 0 to 10").
		Register(cmd)

	ctx.EditDescription, _ = ra.NewString("description").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New description").
		Register(cmd)

	ctx.EditEditor, _ = ra.NewBool("editor").
		SetShort("e").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Edit the description in $EDITOR").
		Register(cmd)

	ctx.EditDue, _ = ra.NewString("due").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Due date (YYYY-MM-DD or RFC 3339)").
		Register(cmd)

	ctx.EditClearDue, _ = ra.NewBool("clear-due").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Remove the due date").
		Register(cmd)

	ctx.EditLabels, _ = ra.NewStringSlice("label").
		SetShort("l").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Replace labels (repeatable)").
		Register(cmd)

	ctx.EditUsed, _ = parent.RegisterCmd(cmd)
}

type editOptions struct {
	cardRef     string
	title       string
	weight      string
	description string
	useEditor   bool
	due         string
	clearDue    bool
	labels      []string
}

func (o editOptions) hasChanges() bool {
	return o.title != "" || o.weight != "" || o.description != "" || o.useEditor ||
		o.due != "" || o.clearDue || len(o.labels) > 0
}

func runEdit(opts editOptions, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()
	ctx := context.Background()

	ref, err := app.CardResolver.Resolve(app.Board.Snapshot(), opts.cardRef)
	if err != nil {
		app.Fatal(err)
	}

	if !opts.hasChanges() {
		if !interactive {
			app.Fatal(kanerr.InvalidField("edit", "no changes given (use --title, --weight, --description, --due or --label)"))
		}
		editWithForm(ctx, app, ref.Card)
		return
	}

	ed := editor.NewEditor(app.Config)
	updated, err := applyEdits(ref.Card, opts, ed.Edit)
	if err != nil {
		app.Fatal(err)
	}

	m, err := app.Board.UpdateCard(ctx, updated)
	if err != nil {
		app.Fatal(err)
	}
	if !m.Changed {
		PrintInfo("No changes to %s", RenderID(ref.Card.ID))
		return
	}
	PrintSuccess("Updated %q (%s)", updated.Title, RenderID(updated.ID))
}

// editWithForm runs the interactive title and weight form.
func editWithForm(ctx context.Context, app *App, card model.Card) {
	form := editform.New(app.Board)
	form.Open(card)

	fields, err := app.Prompter.EditCard(prompt.CardFields{Title: card.Title, Weight: card.Weight})
	if err != nil {
		form.Cancel()
		PrintInfo("Cancelled")
		return
	}
	form.SetTitle(fields.Title)
	form.SetWeight(fields.Weight)

	saved, err := form.Save(ctx)
	if err != nil {
		app.Fatal(err)
	}
	PrintSuccess("Updated %q (%s)", saved.Title, RenderID(saved.ID))
}

// applyEdits returns card with the flag values applied. editDescription is
// called with the current description when the editor was requested.
func applyEdits(card model.Card, opts editOptions, editDescription func(string) (string, error)) (model.Card, error) {
	if opts.due != "" && opts.clearDue {
		return card, kanerr.InvalidField("due", "--due and --clear-due cannot be used together")
	}
	if opts.description != "" && opts.useEditor {
		return card, kanerr.InvalidField("description", "--description and --editor cannot be used together")
	}

	out := card.Clone()

	if opts.title != "" {
		out.Title = opts.title
	}

	weight, ok, err := parseWeight(opts.weight)
	if err != nil {
		return card, err
	}
	if ok {
		out.Weight = weight
	}

	if opts.description != "" {
		out.Description = opts.description
	}
	if opts.useEditor {
		desc, err := editDescription(out.Description)
		if err != nil {
			return card, fmt.Errorf("failed to edit description: %w", err)
		}
		out.Description = desc
	}

	switch {
	case opts.clearDue:
		out.DueDate = nil
	case opts.due != "":
		due, err := util.ParseDueDate(opts.due)
		if err != nil {
			return card, kanerr.InvalidField("due", err.Error())
		}
		out.DueDate = &due
	}

	if len(opts.labels) > 0 {
		out.Labels = append([]string{}, opts.labels...)
	}

	return out, nil
}
