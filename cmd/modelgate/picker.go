package main

import (
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/germanamz/modelgate/pkg/providers/model"
)

var errNoModels = errors.New("no models discovered")

// pickModel asks the user to choose one of models and returns its name.
func pickModel(providerName string, models []model.Descriptor) (string, error) {
	if len(models) == 0 {
		return "", errNoModels
	}

	options := make([]huh.Option[string], 0, len(models))
	for _, m := range models {
		options = append(options, huh.NewOption(m.Label, m.Name))
	}

	name := models[0].Name
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Model ("+providerName+")").
			Options(options...).
			Value(&name),
	)).Run(); err != nil {
		return "", err
	}

	return name, nil
}
