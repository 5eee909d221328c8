package entities

import (
	"context"
	"fmt"
)

// Reconciliation is the outcome of a find-or-create decision.
type Reconciliation[T any] struct {
	Resource T
	Created  bool
}

// Reconcile fetches the current collection with list and returns the first
// element, in remote order, whose natural key equals desired. A match is
// returned unchanged: existing resources are trusted as they are and never
// updated toward the desired attributes. When nothing matches, create is
// invoked exactly once and its result is returned with Created set.
func Reconcile[T any, K comparable](
	ctx context.Context,
	desired K,
	list func(ctx context.Context) ([]T, error),
	naturalKey func(resource T) K,
	create func(ctx context.Context) (T, error),
) (Reconciliation[T], error) {
	existing, err := list(ctx)
	if err != nil {
		return Reconciliation[T]{}, fmt.Errorf("failed to list resources: %w", err)
	}

	for _, resource := range existing {
		if naturalKey(resource) == desired {
			return Reconciliation[T]{Resource: resource}, nil
		}
	}

	created, err := create(ctx)
	if err != nil {
		return Reconciliation[T]{}, err
	}

	return Reconciliation[T]{Resource: created, Created: true}, nil
}

// SiteDomain is the natural key of a site.
func SiteDomain(site Site) string { return site.Name }

// DatabaseName is the natural key of a database.
func DatabaseName(database Database) string { return database.Name }

// JobCommand is the natural key of a scheduled job.
func JobCommand(job Job) string { return job.Command }
