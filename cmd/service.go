package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"

	"songcraft/internal/app"
	"songcraft/internal/render"
	"songcraft/pkg/config"
)

func loadService(ctx context.Context) (*app.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	return app.BuildService(ctx, cfg)
}

func runWithSpinner(ctx context.Context, title string, fn func() error) error {
	var err error
	if spinErr := spinner.New().
		Context(ctx).
		Title(title).
		Action(func() { err = fn() }).
		Run(); spinErr != nil {
		return spinErr
	}
	return err
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, render.Error(err.Error()))
}
