package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"skinsync/internal/errors"
)

// Confirm asks a yes/no question. The description line is optional.
func Confirm(title, description string) (bool, error) {
	var answer bool
	confirm := huh.NewConfirm().
		Title(title).
		Value(&answer)
	if description != "" {
		confirm = confirm.Description(description)
	}

	form := huh.NewForm(huh.NewGroup(confirm))
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input", "")
	}
	return answer, nil
}

// CategoryOption is one selectable sync category.
type CategoryOption struct {
	Name        string
	Description string
}

// SelectCategories shows a multi-select of sync categories.
// All options start selected; the user deselects what they don't want.
func SelectCategories(options []CategoryOption) ([]string, error) {
	if len(options) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"No categories configured",
			"Add categories to the config file")
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		label := opt.Name
		if opt.Description != "" {
			label = fmt.Sprintf("%s - %s", opt.Name, opt.Description)
		}
		huhOptions[i] = huh.NewOption(label, opt.Name).Selected(true)
	}

	var selected []string
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Categories to sync").
			Options(huhOptions...).
			Value(&selected),
	))

	if err := form.Run(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input", "")
	}
	return selected, nil
}
