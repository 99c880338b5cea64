package main

import (
	"go.uber.org/dig"

	"github.com/vybe/trinity-market/internal"
)

// buildApp wires the layers into a container and resolves the CLI application from it.
func buildApp() *internal.AppInternal {
	container := dig.New()
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	var app *internal.AppInternal
	if err := container.Invoke(func(resolved *internal.AppInternal) {
		app = resolved
	}); err != nil {
		panic(err)
	}
	return app
}
