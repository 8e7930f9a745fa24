package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"
)

const selectHeight = 12

// Prompter asks the user for values.
type Prompter interface {
	Input(ctx context.Context, title string) (string, error)
	Select(ctx context.Context, title string, options []string) (string, error)
}

// HuhPrompter prompts on the terminal.
type HuhPrompter struct{}

// Input asks for a non-empty line of text.
func (HuhPrompter) Input(ctx context.Context, title string) (string, error) {
	var value string

	input := huh.NewInput().
		Title(title).
		Value(&value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("value cannot be empty")
			}

			return nil
		})

	if err := huh.NewForm(huh.NewGroup(input)).RunWithContext(ctx); err != nil {
		return "", errors.Wrap(err, "prompt aborted")
	}

	return strings.TrimSpace(value), nil
}

// Select asks for one of options.
func (HuhPrompter) Select(ctx context.Context, title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.Newf("nothing to choose for %q", title)
	}

	var value string

	sel := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Height(selectHeight).
		Value(&value)

	if err := huh.NewForm(huh.NewGroup(sel)).RunWithContext(ctx); err != nil {
		return "", errors.Wrap(err, "prompt aborted")
	}

	return value, nil
}
