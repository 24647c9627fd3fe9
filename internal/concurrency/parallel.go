package concurrency

import (
	"context"
	"errors"
	"sync"
)

// ParallelOptions configura el procesamiento paralelo.
type ParallelOptions struct {
	// MaxWorkers es el número máximo de elementos procesados a la vez.
	MaxWorkers int
}

// DefaultOptions devuelve opciones predeterminadas.
func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 4,
	}
}

// ProcessParallel ejecuta itemFunc sobre items con a lo sumo opts.MaxWorkers en
// paralelo y devuelve los resultados en el mismo orden que la entrada.
//
// El primer error cancela el contexto de las llamadas restantes; los elementos
// que aún no empezaron se omiten. Si fallan varios, se devuelve el error del
// índice más bajo, así el resultado no depende de la planificación.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultOptions().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	results := make([]R, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				r, err := itemFunc(ctx, i, items[i])
				if err != nil {
					errs[i] = err
					cancel()
					continue
				}
				results[i] = r
			}
		}()
	}
	wg.Wait()

	// Un error real tiene prioridad sobre la cancelación que provocó.
	var first, canceled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			if canceled == nil {
				canceled = err
			}
			continue
		}
		first = err
		break
	}
	if first == nil {
		first = canceled
	}
	if first != nil {
		return nil, first
	}
	return results, nil
}
