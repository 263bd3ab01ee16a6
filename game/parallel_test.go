package game

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestParallelForVisitsEveryIndex(t *testing.T) {
	for _, workers := range []int{1, 4} {
		for _, n := range []int{0, 5, 100} {
			visits := make([]atomic.Int32, n)
			err := parallelFor(context.Background(), workers, n, func(i int) error {
				visits[i].Add(1)
				return nil
			})
			if err != nil {
				t.Fatalf("workers=%d n=%d: %v", workers, n, err)
			}
			for i := range visits {
				if got := visits[i].Load(); got != 1 {
					t.Errorf("workers=%d n=%d: index %d visited %d times, want 1", workers, n, i, got)
				}
			}
		}
	}
}

func TestParallelForReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	for _, workers := range []int{1, 4} {
		err := parallelFor(context.Background(), workers, 100, func(i int) error {
			if i == 50 {
				return boom
			}
			return nil
		})
		if !errors.Is(err, boom) {
			t.Errorf("workers=%d: err = %v, want %v", workers, err, boom)
		}
	}
}

func TestWorkerCount(t *testing.T) {
	if got := workerCount(3); got != 3 {
		t.Errorf("workerCount(3) = %d, want 3", got)
	}
	if got := workerCount(0); got < 1 {
		t.Errorf("workerCount(0) = %d, want >= 1", got)
	}
}
