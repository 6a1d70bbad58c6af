package bitpack

import "testing"

func TestRawStorageRoundTrip(t *testing.T) {
	s := New(200, 100, true)
	if _, ok := s.(*rawStorage); !ok {
		t.Fatalf("expected raw storage for high-speed priority, got %T", s)
	}

	for i := 0; i < s.Len(); i++ {
		s.Set(i, byte(i%200))
	}
	for i := 0; i < s.Len(); i++ {
		if got := s.Get(i); got != byte(i%200) {
			t.Fatalf("index %d: expected %d, got %d", i, byte(i%200), got)
		}
	}
}

func TestNibbleStorageRoundTrip(t *testing.T) {
	s := New(5, 37, false)
	if _, ok := s.(*nibbleStorage); !ok {
		t.Fatalf("expected nibble storage for small sigma, got %T", s)
	}

	for i := 0; i < s.Len(); i++ {
		s.Set(i, byte(i%5))
	}
	for i := 0; i < s.Len(); i++ {
		if got := s.Get(i); got != byte(i%5) {
			t.Fatalf("index %d: expected %d, got %d", i, byte(i%5), got)
		}
	}

	if len(s.Bytes()) != (37+1)/2 {
		t.Errorf("expected packed length %d, got %d", (37+1)/2, len(s.Bytes()))
	}
}

func TestHighSpeedForcesRaw(t *testing.T) {
	s := New(5, 10, true)
	if _, ok := s.(*rawStorage); !ok {
		t.Fatalf("expected raw storage when high-speed priority requested, got %T", s)
	}
}

func TestRawAndNibbleEquivalence(t *testing.T) {
	raw := New(10, 64, true)
	nib := New(10, 64, false)

	vals := make([]byte, 64)
	for i := range vals {
		vals[i] = byte((i*7 + 3) % 10)
	}

	for i, v := range vals {
		raw.Set(i, v)
		nib.Set(i, v)
	}

	for i := range vals {
		if raw.Get(i) != nib.Get(i) {
			t.Fatalf("index %d: raw=%d nibble=%d differ", i, raw.Get(i), nib.Get(i))
		}
	}
}
