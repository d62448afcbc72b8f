package prompt

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/amterp/kanpad/internal/model"
)

// HuhPrompter implements Prompter using the charmbracelet/huh library.
type HuhPrompter struct{}

// NewHuhPrompter creates a new huh-based prompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

func (p *HuhPrompter) Select(title string, options []string) (string, error) {
	var result string

	opts := make([]huh.Option[string], len(options))
	for i, opt := range options {
		opts[i] = huh.NewOption(opt, opt)
	}

	err := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) Input(title string, defaultValue string) (string, error) {
	var result string

	input := huh.NewInput().
		Title(title).
		Value(&result)

	if defaultValue != "" {
		result = defaultValue
	}

	err := input.Run()
	return result, err
}

func (p *HuhPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	result := defaultValue

	err := huh.NewConfirm().
		Title(title).
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) EditCard(fields CardFields) (CardFields, error) {
	title := fields.Title
	weight := strconv.Itoa(fields.Weight)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&title),
			huh.NewInput().
				Title("Weight").
				Description("0 to 10").
				Value(&weight).
				Validate(ValidateWeightInput),
		),
	)
	if err := form.Run(); err != nil {
		return fields, err
	}

	w, _ := strconv.Atoi(strings.TrimSpace(weight))
	return CardFields{Title: title, Weight: w}, nil
}

// ValidateWeightInput checks a typed weight.
func ValidateWeightInput(s string) error {
	w, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return model.ValidateWeight(-1)
	}
	return model.ValidateWeight(w)
}
