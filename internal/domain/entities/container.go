package entities

import (
	"os"

	"go.uber.org/dig"
)

// RegisterProviders registers all entity providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(func() EnvLookup {
		return os.LookupEnv
	}); err != nil {
		return err
	}
	return container.Provide(NewParameterResolver)
}
