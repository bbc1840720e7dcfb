package arena

import "testing"

func TestTinySlot(t *testing.T) {
	if x := tinySlot(0); x != 0 {
		t.Errorf("expected 0, got %v", x)
	} else if x = tinySlot(1); x != 16 {
		t.Errorf("expected 16, got %v", x)
	} else if x = tinySlot(16); x != 16 {
		t.Errorf("expected 16, got %v", x)
	} else if x = tinySlot(17); x != 32 {
		t.Errorf("expected 32, got %v", x)
	} else if x = tinySlot(496); x != 496 {
		t.Errorf("expected 496, got %v", x)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int64]int64{0: 1, 1: 1, 2: 2, 3: 4, 513: 1024, 1024: 1024, 1025: 2048}
	for in, want := range cases {
		if got := nextPowerOfTwo(in); got != want {
			t.Errorf("nextPowerOfTwo(%v): expected %v, got %v", in, want, got)
		}
	}
}

func TestLog2(t *testing.T) {
	cases := map[int64]int{1: 0, 2: 1, 4: 2, 1024: 10, 4096: 12, 8192: 13}
	for in, want := range cases {
		if got := log2(in); got != want {
			t.Errorf("log2(%v): expected %v, got %v", in, want, got)
		}
	}
}

func TestArenaNormalize(t *testing.T) {
	a, err := NewArena(Config{PageSize: 8192, MaxOrder: 11}, NewHeapCapability())
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}

	if _, _, err := a.normalize(-1); err != ErrInvalidCapacity {
		t.Errorf("expected ErrInvalidCapacity, got %v", err)
	}

	n, class, err := a.normalize(10)
	if err != nil || n != 16 || class != Tiny {
		t.Errorf("normalize(10): expected (16, Tiny), got (%v, %v, %v)", n, class, err)
	}

	n, class, err = a.normalize(4096)
	if err != nil || n != 4096 || class != Small {
		t.Errorf("normalize(4096): expected (4096, Small), got (%v, %v, %v)", n, class, err)
	}
	if smallIdx(n) != 3 {
		t.Errorf("smallIdx(4096): expected 3, got %v", smallIdx(n))
	}
	if smallIdx(512) != 0 {
		t.Errorf("smallIdx(512): expected 0, got %v", smallIdx(512))
	}

	n, class, err = a.normalize(a.pageSize + 1)
	if err != nil || class != Normal {
		t.Errorf("normalize(pageSize+1): expected Normal, got (%v, %v, %v)", n, class, err)
	}

	n, class, err = a.normalize(a.chunkSize)
	if err != nil || n != a.chunkSize || class != Huge {
		t.Errorf("normalize(chunkSize): expected (chunkSize, Huge), got (%v, %v, %v)", n, class, err)
	}
}

// normalize must be idempotent: normalizing its own output is a no-op.
func TestArenaNormalizeIdempotent(t *testing.T) {
	a, err := NewArena(Config{PageSize: 8192, MaxOrder: 11}, NewHeapCapability())
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	for _, r := range []int64{1, 17, 500, 512, 4096, 8193, a.chunkSize, a.chunkSize + 1} {
		n1, c1, err := a.normalize(r)
		if err != nil {
			t.Fatalf("normalize(%v): %v", r, err)
		}
		n2, c2, err := a.normalize(n1)
		if err != nil {
			t.Fatalf("normalize(%v) (second pass): %v", n1, err)
		}
		if n1 != n2 || c1 != c2 {
			t.Errorf("normalize(%v) not idempotent: (%v,%v) != (%v,%v)", r, n1, c1, n2, c2)
		}
	}
}

// normalize must be monotone: r1 <= r2 implies normalize(r1) <= normalize(r2).
func TestArenaNormalizeMonotone(t *testing.T) {
	a, err := NewArena(Config{PageSize: 8192, MaxOrder: 11}, NewHeapCapability())
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	prev := int64(-1)
	for r := int64(0); r < a.chunkSize*2; r += 37 {
		n, _, err := a.normalize(r)
		if err != nil {
			t.Fatalf("normalize(%v): %v", r, err)
		}
		if n < prev {
			t.Errorf("normalize(%v)=%v is not monotone (prev %v)", r, n, prev)
		}
		prev = n
	}
}
