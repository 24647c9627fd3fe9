package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxWorkers != 4 {
		t.Errorf("Expected MaxWorkers to be 4, got %d", opts.MaxWorkers)
	}
}

func TestProcessParallelEmpty(t *testing.T) {
	results, err := ProcessParallel(context.Background(), []int{}, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		return "", nil
	})
	if err != nil {
		t.Errorf("Expected nil error for empty input, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty results for empty input, got %d items", len(results))
	}
}

func TestProcessParallelOrder(t *testing.T) {
	input := []int{5, 3, 1, 4, 2}

	for _, workers := range []int{-1, 1, 2, 10} {
		results, err := ProcessParallel(context.Background(), input, ParallelOptions{MaxWorkers: workers}, func(ctx context.Context, index int, item int) (int, error) {
			time.Sleep(time.Duration(item) * time.Millisecond)
			return item * 10, nil
		})
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}
		for i, res := range results {
			if res != input[i]*10 {
				t.Errorf("workers=%d: result at index %d = %d, want %d", workers, i, res, input[i]*10)
			}
		}
	}
}

func TestProcessParallelBound(t *testing.T) {
	var inFlight, peak int32
	input := make([]int, 20)

	_, err := ProcessParallel(context.Background(), input, ParallelOptions{MaxWorkers: 3}, func(ctx context.Context, index int, item int) (int, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return 0, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak > 3 {
		t.Errorf("Expected at most 3 concurrent calls, saw %d", peak)
	}
}

func TestProcessParallelFirstErrorByIndex(t *testing.T) {
	errTwo := errors.New("item 2 failed")
	errFour := errors.New("item 4 failed")

	results, err := ProcessParallel(context.Background(), []int{1, 2, 3, 4}, ParallelOptions{MaxWorkers: 4}, func(ctx context.Context, index int, item int) (int, error) {
		switch item {
		case 2:
			time.Sleep(5 * time.Millisecond)
			return 0, errTwo
		case 4:
			return 0, errFour
		}
		return item, nil
	})
	if results != nil {
		t.Errorf("Expected nil results on failure, got %v", results)
	}
	if !errors.Is(err, errTwo) && !errors.Is(err, errFour) {
		// item 2 may be skipped by the cancellation item 4 causes, so either is fine
		t.Fatalf("Expected one of the item errors, got %v", err)
	}
}

func TestProcessParallelStopsAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	var calls int32

	_, err := ProcessParallel(context.Background(), make([]int, 50), ParallelOptions{MaxWorkers: 1}, func(ctx context.Context, index int, item int) (int, error) {
		atomic.AddInt32(&calls, 1)
		if index == 0 {
			return 0, boom
		}
		return 0, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected remaining items to be skipped, got %d calls", calls)
	}
}

func TestProcessParallelCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	_, err := ProcessParallel(ctx, []int{1, 2, 3}, DefaultOptions(), func(ctx context.Context, index int, item int) (int, error) {
		atomic.AddInt32(&calls, 1)
		return item, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no calls with a canceled context, got %d", calls)
	}
}
