package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/amterp/ra"

	"github.com/amterp/kanpad/internal/service"
	"github.com/amterp/kanpad/internal/util"
)

func registerDoctor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("doctor")
	cmd.SetDescription("Check stored data for consistency issues. Exit 0 if healthy, 1 if errors found.")

	ctx.DoctorFix, _ = ra.NewBool("fix").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Apply automatic fixes for issues with deterministic solutions").
		Register(cmd)

	ctx.DoctorJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output the report as JSON").
		Register(cmd)

	ctx.DoctorUsed, _ = parent.RegisterCmd(cmd)
}

func runDoctor(fix, jsonOutput bool) {
	app := mustApp(false)
	defer app.Close()
	ctx := context.Background()

	report, err := app.Doctor.Diagnose(ctx)
	if err != nil {
		app.Fatal(err)
	}

	if fix && len(report.Issues) > 0 {
		report, err = app.Doctor.Fix(ctx, report)
		if err != nil {
			app.Fatal(err)
		}
	}

	if jsonOutput {
		if err := printJson(report); err != nil {
			app.Fatal(err)
		}
	} else {
		fmt.Print(formatDoctorReport(report, fix))
	}

	if report.HasErrors() {
		app.Close()
		os.Exit(1)
	}
}

func formatDoctorReport(report *service.DiagnosticReport, didFix bool) string {
	var b strings.Builder

	if report.Board.Stored {
		fmt.Fprintf(&b, "Board: %d lists, %d cards", report.Board.Lists, report.Board.Cards)
		if report.Board.UpdatedAt != nil {
			fmt.Fprintf(&b, " %s", RenderMuted("(saved "+util.FormatTime(*report.Board.UpdatedAt)+")"))
		}
		b.WriteString("\n\n")
	} else {
		fmt.Fprintf(&b, "Board: %s\n\n", RenderMuted("not stored yet (default board)"))
	}

	fixedCount := 0
	if didFix {
		fixedCount = report.Summary.Fixed
	}
	if fixedCount > 0 {
		fmt.Fprintf(&b, "%s Fixed %d issue(s)\n\n", StyleSuccess.Render(IconSuccess), fixedCount)
	}

	if len(report.Issues) == 0 {
		msg := "No issues found"
		if fixedCount > 0 {
			msg = "All issues resolved"
		}
		fmt.Fprintf(&b, "%s %s\n", StyleSuccess.Render(IconSuccess), msg)
		return b.String()
	}

	// Errors first, then warnings.
	for _, sev := range []service.IssueSeverity{service.SeverityError, service.SeverityWarning} {
		for _, issue := range report.Issues {
			if issue.Severity == sev {
				b.WriteString(formatIssue(issue))
			}
		}
	}

	var summary []string
	if report.Summary.Errors > 0 {
		summary = append(summary, StyleError.Render(fmt.Sprintf("%d error(s)", report.Summary.Errors)))
	}
	if report.Summary.Warnings > 0 {
		summary = append(summary, StyleWarning.Render(fmt.Sprintf("%d warning(s)", report.Summary.Warnings)))
	}
	if fixedCount > 0 {
		summary = append(summary, StyleSuccess.Render(fmt.Sprintf("%d fixed", fixedCount)))
	}
	fmt.Fprintf(&b, "\nSummary: %s\n", strings.Join(summary, ", "))

	if !didFix {
		for _, issue := range report.Issues {
			if issue.Fixable {
				fmt.Fprintf(&b, "\n%s Run 'kanpad doctor --fix' to apply automatic fixes\n", RenderMuted(IconInfo))
				break
			}
		}
	}
	return b.String()
}

func formatIssue(issue service.Issue) string {
	style := StyleWarning
	icon := IconWarning
	if issue.Severity == service.SeverityError {
		style = StyleError
		icon = IconError
	}

	location := ""
	if issue.List != "" {
		location = " " + RenderMuted(issue.List)
	}
	if issue.CardID != "" {
		location += " " + RenderID(issue.CardID)
	}

	line := fmt.Sprintf("%s %s%s %s\n", style.Render(icon), style.Render("["+issue.Code+"]"), location, issue.Message)
	if issue.FixAction != "" {
		prefix := ""
		if issue.Fixable {
			prefix = "Fix: "
		}
		line += fmt.Sprintf("  %s %s%s\n", RenderMuted(IconInfo), prefix, issue.FixAction)
	}
	return line
}
