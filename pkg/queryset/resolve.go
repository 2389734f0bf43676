package queryset

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Resolver turns the URL held by a reference into a display name.
// *QuerySet[T] implements it.
type Resolver interface {
	ResolveName(ctx context.Context, url string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, url string) (string, error)

// ResolveName implements Resolver.
func (f ResolverFunc) ResolveName(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// ResolveName fetches url into a fresh sibling set and returns the
// record's display name. The receiver's items are left untouched, so one
// set can serve concurrent resolutions.
func (qs *QuerySet[T]) ResolveName(ctx context.Context, url string) (string, error) {
	sibling, err := qs.derive(nil).FetchByURL(ctx, url)
	if err != nil {
		return "", err
	}
	return sibling.DisplayName()
}

// resolution is the outcome of resolving one item's reference.
type resolution struct {
	index int
	name  string
	err   error
}

// ResolveForeignKeys replaces, for every registered foreign-key field and
// every item, the referenced URL with the resolver's display name. Fields
// are processed in name order. Absent and already resolved references are
// left alone, so running it twice fetches nothing the second time.
//
// Each field is applied only once all its items resolved; the first error
// is returned.
func (qs *QuerySet[T]) ResolveForeignKeys(ctx context.Context) error {
	start := time.Now()

	for _, name := range qs.ForeignKeys() {
		f, err := qs.kind.field(name)
		if err != nil {
			return err
		}
		if !f.IsRef() {
			return fmt.Errorf("%w: %s.%s", ErrNotReference, qs.kind.Name, name)
		}

		var pending []int
		for i, item := range qs.items {
			if f.Ref(item).IsUnresolved() {
				pending = append(pending, i)
			}
		}
		if len(pending) == 0 {
			continue
		}

		qs.logger.Debug().
			Str("field", name).
			Int("pending", len(pending)).
			Int("workers", qs.workers).
			Msg("Resolving foreign key")

		resolver := qs.foreignKeys[name]
		var names map[int]string
		if qs.workers < 2 || len(pending) < 2 {
			names, err = qs.resolveSequential(ctx, f, resolver, pending)
		} else {
			names, err = qs.resolveParallel(ctx, f, resolver, pending)
		}
		if err != nil {
			return fmt.Errorf("resolve %s.%s: %w", qs.kind.Name, name, err)
		}

		for i, resolved := range names {
			item := qs.items[i]
			qs.items[i] = f.SetRef(item, f.Ref(item).Resolve(resolved))
		}
	}

	qs.logger.Debug().
		Int("items", len(qs.items)).
		Dur("duration", time.Since(start)).
		Msg("Foreign keys resolved")

	return nil
}

func (qs *QuerySet[T]) resolveSequential(ctx context.Context, f Field[T], resolver Resolver, pending []int) (map[int]string, error) {
	names := make(map[int]string, len(pending))
	for _, i := range pending {
		name, err := resolver.ResolveName(ctx, f.Ref(qs.items[i]).URL())
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		names[i] = name
	}
	return names, nil
}

// resolveParallel distributes pending items over a bounded worker pool.
// Workers only read qs.items; results are applied by the caller.
func (qs *QuerySet[T]) resolveParallel(ctx context.Context, f Field[T], resolver Resolver, pending []int) (map[int]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan int)
	results := make(chan resolution, len(pending))

	// Fill queue, stopping early once a worker failed
	go func() {
		defer close(queue)
		for _, i := range pending {
			select {
			case queue <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	workers := min(qs.workers, len(pending))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			processed := 0
			for i := range queue {
				name, err := resolver.ResolveName(ctx, f.Ref(qs.items[i]).URL())
				results <- resolution{index: i, name: name, err: err}
				if err != nil {
					cancel()
					return
				}
				processed++
			}
			qs.logger.Debug().
				Int("worker_id", workerID).
				Int("resolved", processed).
				Msg("Worker completed")
		}(w)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	names := make(map[int]string, len(pending))
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("item %d: %w", res.index, res.err)
			}
			continue
		}
		names[res.index] = res.name
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if len(names) != len(pending) {
		// Only possible when the parent context ended before dispatch finished
		return nil, context.Cause(ctx)
	}
	return names, nil
}
