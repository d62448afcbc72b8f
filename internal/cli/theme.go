package cli

import (
	"context"
	"strings"

	"github.com/amterp/ra"

	kanerr "github.com/amterp/kanpad/internal/errors"
)

const (
	themeDark   = "dark"
	themeLight  = "light"
	themeToggle = "toggle"
)

func registerTheme(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("theme")
	cmd.SetDescription("Show or set the dark mode preference")

	ctx.ThemeMode, _ = ra.NewString("mode").
		SetOptional(true).
		SetUsage("dark, light or toggle (prints the current theme when omitted)").
		Register(cmd)

	ctx.ThemeUsed, _ = parent.RegisterCmd(cmd)
}

func runTheme(mode string) {
	app := mustApp(false)
	defer app.Close()
	ctx := context.Background()

	var err error
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "":
		PrintInfo("Theme: %s", themeName(app.Theme.Dark()))
		return
	case themeDark:
		err = app.Theme.Set(ctx, true)
	case themeLight:
		err = app.Theme.Set(ctx, false)
	case themeToggle:
		_, err = app.Theme.Toggle(ctx)
	default:
		err = kanerr.InvalidField("mode", "expected dark, light or toggle")
	}
	if err != nil {
		app.Fatal(err)
	}

	PrintSuccess("Theme set to %s", themeName(app.Theme.Dark()))
}

func themeName(dark bool) string {
	if dark {
		return themeDark
	}
	return themeLight
}
