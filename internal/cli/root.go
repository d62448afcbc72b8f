package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool

	// init command
	InitUsed *bool

	// show command
	ShowUsed *bool
	ShowCard *string
	ShowJson *bool
	ShowYaml *bool

	// add command
	AddUsed   *bool
	AddList   *string
	AddTitle  *string
	AddWeight *string

	// edit command
	EditUsed        *bool
	EditCard        *string
	EditTitle       *string
	EditWeight      *string
	EditDescription *string
	EditEditor      *bool
	EditDue         *string
	EditClearDue    *bool
	EditLabels      *[]string

	// move command
	MoveUsed     *bool
	MoveCard     *string
	MoveList     *string
	MovePosition *int

	// delete command
	DeleteUsed  *bool
	DeleteCard  *string
	DeleteForce *bool

	// theme command
	ThemeUsed *bool
	ThemeMode *string

	// doctor command
	DoctorUsed *bool
	DoctorJson *bool
	DoctorFix  *bool

	// serve command
	ServeUsed   *bool
	ServePort   *int
	ServeNoOpen *bool

	// tui command
	TuiUsed *bool
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("kanpad")
	cmd.SetDescription("A three-list kanban board for the terminal and the browser")

	// Global flag for non-interactive mode
	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	registerInit(cmd, ctx)
	registerShow(cmd, ctx)
	registerAdd(cmd, ctx)
	registerEdit(cmd, ctx)
	registerMove(cmd, ctx)
	registerDelete(cmd, ctx)
	registerTheme(cmd, ctx)
	registerDoctor(cmd, ctx)
	registerServe(cmd, ctx)
	registerTui(cmd, ctx)

	cmd.ParseOrExit(os.Args[1:])

	executeCommand(ctx)
}

func executeCommand(ctx *CommandContext) {
	interactive := !*ctx.NonInteractive

	switch {
	case *ctx.InitUsed:
		runInit()

	case *ctx.ShowUsed:
		runShow(*ctx.ShowCard, *ctx.ShowJson, *ctx.ShowYaml)

	case *ctx.AddUsed:
		runAdd(*ctx.AddList, *ctx.AddTitle, *ctx.AddWeight, interactive)

	case *ctx.EditUsed:
		runEdit(editOptions{
			cardRef:     *ctx.EditCard,
			title:       *ctx.EditTitle,
			weight:      *ctx.EditWeight,
			description: *ctx.EditDescription,
			useEditor:   *ctx.EditEditor,
			due:         *ctx.EditDue,
			clearDue:    *ctx.EditClearDue,
			labels:      *ctx.EditLabels,
		}, interactive)

	case *ctx.MoveUsed:
		runMove(*ctx.MoveCard, *ctx.MoveList, *ctx.MovePosition, interactive)

	case *ctx.DeleteUsed:
		runDelete(*ctx.DeleteCard, *ctx.DeleteForce, interactive)

	case *ctx.ThemeUsed:
		runTheme(*ctx.ThemeMode)

	case *ctx.DoctorUsed:
		runDoctor(*ctx.DoctorFix, *ctx.DoctorJson)

	case *ctx.ServeUsed:
		runServe(*ctx.ServePort, *ctx.ServeNoOpen)

	case *ctx.TuiUsed:
		runTui()
	}
}
