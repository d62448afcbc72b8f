package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/util"
)

// printJson writes v as indented JSON to stdout.
func printJson(v any) error {
	return writeJson(os.Stdout, v)
}

func writeJson(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printYaml writes v as YAML to stdout.
func printYaml(v any) error {
	return writeYaml(os.Stdout, v)
}

func writeYaml(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// formatBoard renders the board for the terminal, one list after another.
// Cards are numbered from 1 so the numbers work as list:N references.
func formatBoard(board model.Board) string {
	var b strings.Builder
	for i, l := range board.Lists {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", RenderBold(l.Title), RenderMuted(fmt.Sprintf("(%s, %d)", l.ID, len(l.Cards))))
		if len(l.Cards) == 0 {
			fmt.Fprintf(&b, "  %s\n", RenderMuted("no cards"))
			continue
		}
		for j, c := range l.Cards {
			fmt.Fprintf(&b, "  %d. %s %s %s%s\n", j+1, RenderWeight(c.Weight), cardTitle(c), RenderID(c.ID), cardExtras(c))
		}
	}
	return b.String()
}

// formatCard renders a single card with all of its fields.
func formatCard(c model.Card, listTitle string) string {
	const w = 12
	lines := []string{
		LabelValue("ID", RenderID(c.ID), w),
		LabelValue("Title", cardTitle(c), w),
		LabelValue("List", listTitle, w),
		LabelValue("Weight", fmt.Sprint(c.Weight), w),
	}
	if c.Description != "" {
		lines = append(lines, LabelValue("Description", c.Description, w))
	}
	if c.DueDate != nil {
		lines = append(lines, LabelValue("Due", util.FormatDate(*c.DueDate), w))
	}
	if len(c.Labels) > 0 {
		lines = append(lines, LabelValue("Labels", strings.Join(c.Labels, ", "), w))
	}
	lines = append(lines, LabelValue("Created", util.FormatTime(c.CreatedAt), w))
	return strings.Join(lines, "\n")
}

func cardTitle(c model.Card) string {
	if c.Title == "" {
		return RenderMuted("(untitled)")
	}
	return c.Title
}

func cardExtras(c model.Card) string {
	var parts []string
	if c.DueDate != nil {
		parts = append(parts, "due "+util.FormatDate(*c.DueDate))
	}
	for _, l := range c.Labels {
		parts = append(parts, "#"+l)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + RenderMuted(strings.Join(parts, " "))
}
