package comm

import (
	"sync"
	"testing"
)

func TestIdentityPassesThrough(t *testing.T) {
	c := NewIdentity()
	if c.Size() != 1 || c.Rank() != 0 {
		t.Fatalf("Identity: rank=%d size=%d, want rank=0 size=1", c.Rank(), c.Size())
	}
	sum, err := c.AllReduceSumComplex([]complex128{1, 2})
	if err != nil {
		t.Fatalf("AllReduceSumComplex: %v", err)
	}
	if sum[0] != 1 || sum[1] != 2 {
		t.Fatalf("AllReduceSumComplex = %v, want [1 2]", sum)
	}
	if err := c.Barrier(); err != nil {
		t.Fatalf("Barrier: %v", err)
	}
}

func TestLocalAllReduceSumComplex(t *testing.T) {
	group := NewLocalGroup(3)
	results := make([][]complex128, 3)
	var wg sync.WaitGroup
	for r := 0; r < 3; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			sum, err := group[r].AllReduceSumComplex([]complex128{complex(float64(r+1), 0)})
			if err != nil {
				t.Errorf("rank %d: AllReduceSumComplex: %v", r, err)
				return
			}
			results[r] = sum
		}(r)
	}
	wg.Wait()

	for r := 0; r < 3; r++ {
		if results[r] == nil || results[r][0] != 6 {
			t.Fatalf("rank %d: sum = %v, want [6]", r, results[r])
		}
	}
}

func TestLocalBroadcastDistributesRootValue(t *testing.T) {
	group := NewLocalGroup(4)
	results := make([][]complex128, 4)
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			var v []complex128
			if r == 0 {
				v = []complex128{42, -1}
			} else {
				v = []complex128{0, 0}
			}
			got, err := group[r].Broadcast(v, 0)
			if err != nil {
				t.Errorf("rank %d: Broadcast: %v", r, err)
				return
			}
			results[r] = got
		}(r)
	}
	wg.Wait()

	for r := 0; r < 4; r++ {
		if results[r][0] != 42 || results[r][1] != -1 {
			t.Fatalf("rank %d: Broadcast = %v, want [42 -1]", r, results[r])
		}
	}
}

func TestLocalAllReduceSumFloat64(t *testing.T) {
	group := NewLocalGroup(2)
	results := make([]float64, 2)
	var wg sync.WaitGroup
	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			sum, err := group[r].AllReduceSumFloat64([]float64{float64(r + 1)})
			if err != nil {
				t.Errorf("rank %d: AllReduceSumFloat64: %v", r, err)
				return
			}
			results[r] = sum[0]
		}(r)
	}
	wg.Wait()
	for r := 0; r < 2; r++ {
		if results[r] != 3 {
			t.Fatalf("rank %d: sum = %v, want 3", r, results[r])
		}
	}
}

func TestLocalDetectsLengthMismatch(t *testing.T) {
	group := NewLocalGroup(2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			local := []complex128{1}
			if r == 1 {
				local = []complex128{1, 2}
			}
			_, err := group[r].AllReduceSumComplex(local)
			errs[r] = err
		}(r)
	}
	wg.Wait()
	for r := 0; r < 2; r++ {
		if errs[r] == nil {
			t.Fatalf("rank %d: expected a parameter-size-mismatch error", r)
		}
	}
}

func TestLocalBarrierReleasesAllWorkers(t *testing.T) {
	group := NewLocalGroup(5)
	var wg sync.WaitGroup
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			if err := group[r].Barrier(); err != nil {
				t.Errorf("rank %d: Barrier: %v", r, err)
			}
		}(r)
	}
	wg.Wait()
}
