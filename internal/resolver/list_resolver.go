package resolver

import (
	"strings"

	kanerr "github.com/amterp/kanpad/internal/errors"
	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/prompt"
	"github.com/amterp/kanpad/internal/util"
)

// ListResolver handles list selection logic.
type ListResolver struct {
	prompter prompt.Prompter
}

// NewListResolver creates a new list resolver. prompter may be nil when
// prompting is never wanted.
func NewListResolver(prompter prompt.Prompter) *ListResolver {
	return &ListResolver{prompter: prompter}
}

// Resolve determines which list to use:
// 1. If a reference is given, match it by ID, title (any case) or slug
// 2. If interactive, prompt with the list titles
// 3. Otherwise, use the first list
func (r *ListResolver) Resolve(board model.Board, ref string, interactive bool) (model.List, error) {
	if len(board.Lists) == 0 {
		return model.List{}, kanerr.ListNotFound(ref)
	}

	if strings.TrimSpace(ref) != "" {
		idx, err := r.index(board, ref)
		if err != nil {
			return model.List{}, err
		}
		return board.Lists[idx], nil
	}

	if !interactive || r.prompter == nil {
		return board.Lists[0], nil
	}

	titles := make([]string, len(board.Lists))
	for i, l := range board.Lists {
		titles[i] = l.Title
	}
	choice, err := r.prompter.Select("Select list", titles)
	if err != nil {
		return model.List{}, err
	}
	for _, l := range board.Lists {
		if l.Title == choice {
			return l, nil
		}
	}
	return model.List{}, kanerr.ListNotFound(choice)
}

func (r *ListResolver) index(board model.Board, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if idx := board.ListIndex(ref); idx >= 0 {
		return idx, nil
	}
	for i, l := range board.Lists {
		if strings.EqualFold(l.Title, ref) {
			return i, nil
		}
	}
	slug := util.Slugify(ref)
	if slug != "" {
		for i, l := range board.Lists {
			if util.Slugify(l.Title) == slug || util.Slugify(l.ID) == slug {
				return i, nil
			}
		}
	}
	return -1, kanerr.ListNotFound(ref)
}
