package store

import (
	"context"
	"fmt"
	"sync"

	"cafe-site/internal/docstore"
	"cafe-site/internal/model"

	"github.com/rs/zerolog"
)

// SeedOptions controls Seed.
type SeedOptions struct {
	// Force overwrites collections that already hold documents.
	Force bool
	// DryRun reports what would be written without writing.
	DryRun bool
}

// SeedReport lists, per collection (or the profile key), how many documents
// were written. Collections left untouched are listed in Skipped.
type SeedReport struct {
	Written map[string]int
	Skipped []string
}

// Seed writes ds into an empty remote store. Collections that already hold
// content are skipped unless opts.Force is set. It does not delete documents.
func Seed(ctx context.Context, adapter docstore.Adapter, ds model.Dataset, opts SeedOptions, logger zerolog.Logger) (SeedReport, error) {
	logger = logger.With().Str("component", "seed").Logger()
	report := SeedReport{Written: make(map[string]int)}

	steps := []struct {
		collection string
		docs       map[string]any
	}{
		{MenuItemsCollection, byID(ds.MenuItems, menuItemID)},
		{CategoriesCollection, byID(ds.Categories, categoryID)},
		{ReservationsCollection, byID(ds.Reservations, reservationID)},
	}

	for _, step := range steps {
		existing, err := currentCollection(ctx, adapter, step.collection)
		if err != nil {
			return report, err
		}
		if len(existing) > 0 && !opts.Force {
			logger.Info().Str("collection", step.collection).Int("existing", len(existing)).Msg("collection not empty, skipping")
			report.Skipped = append(report.Skipped, step.collection)
			continue
		}

		for id, v := range step.docs {
			if !opts.DryRun {
				data, err := docstore.Encode(v)
				if err != nil {
					return report, fmt.Errorf("failed to encode %s/%s: %w", step.collection, id, err)
				}
				if err := adapter.Write(ctx, step.collection, id, data); err != nil {
					return report, err
				}
			}
			report.Written[step.collection]++
		}
		logger.Info().
			Str("collection", step.collection).
			Int("documents", report.Written[step.collection]).
			Bool("dry_run", opts.DryRun).
			Msg("collection seeded")
	}

	existing, err := currentDocument(ctx, adapter, ProfileKey)
	if err != nil {
		return report, err
	}
	if existing != nil && !opts.Force {
		logger.Info().Str("key", ProfileKey).Msg("profile exists, skipping")
		report.Skipped = append(report.Skipped, ProfileKey)
		return report, nil
	}

	if !opts.DryRun {
		data, err := docstore.Encode(ds.Profile)
		if err != nil {
			return report, fmt.Errorf("failed to encode profile: %w", err)
		}
		if err := adapter.WriteSingleton(ctx, ProfileKey, data); err != nil {
			return report, err
		}
	}
	report.Written[ProfileKey] = 1

	return report, nil
}

func byID[T any](list []T, id func(T) string) map[string]any {
	out := make(map[string]any, len(list))
	for _, v := range list {
		out[id(v)] = v
	}
	return out
}

type firstResult[T any] struct {
	value T
	err   error
}

// currentCollection returns the first snapshot a fresh subscription delivers.
func currentCollection(ctx context.Context, adapter docstore.Adapter, collection string) ([]docstore.Document, error) {
	ch := make(chan firstResult[[]docstore.Document], 1)
	var once sync.Once
	deliver := func(r firstResult[[]docstore.Document]) {
		once.Do(func() { ch <- r })
	}

	unsubscribe := adapter.Subscribe(collection,
		func(docs []docstore.Document) { deliver(firstResult[[]docstore.Document]{value: docs}) },
		func(err error) { deliver(firstResult[[]docstore.Document]{err: err}) },
	)
	defer unsubscribe()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func currentDocument(ctx context.Context, adapter docstore.Adapter, key string) (*docstore.Document, error) {
	ch := make(chan firstResult[*docstore.Document], 1)
	var once sync.Once
	deliver := func(r firstResult[*docstore.Document]) {
		once.Do(func() { ch <- r })
	}

	unsubscribe := adapter.SubscribeSingleton(key,
		func(doc *docstore.Document) { deliver(firstResult[*docstore.Document]{value: doc}) },
		func(err error) { deliver(firstResult[*docstore.Document]{err: err}) },
	)
	defer unsubscribe()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
