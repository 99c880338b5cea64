package internal

import (
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// AppInternal is the root of the dependency graph: every CLI subcommand.
type AppInternal struct {
	controllers []entities.Controller
}

// NewAppInternal creates the AppInternal from the aggregated controllers.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns the registered controllers in display order.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
