package value

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAdapterCoerceScalar(t *testing.T) {
	a := &Adapter{}

	tests := []struct {
		name string
		in   any
		pt   PropertyType
		want any
	}{
		{name: "string to int", in: "42", pt: Integer, want: int64(42)},
		{name: "float to int", in: 3.9, pt: Integer, want: int64(3)},
		{name: "string to float", in: "2.5", pt: Float, want: 2.5},
		{name: "int to bool nonzero", in: int64(5), pt: Boolean, want: true},
		{name: "string literal true", in: "true", pt: Boolean, want: true},
		{name: "int to string", in: int64(7), pt: String, want: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Coerce(tt.in, tt.pt, false)
			if err != nil {
				t.Fatalf("Coerce(%v, %s) error = %v", tt.in, tt.pt, err)
			}
			if got != tt.want {
				t.Errorf("Coerce(%v, %s) = %v, want %v", tt.in, tt.pt, got, tt.want)
			}
		})
	}
}

func TestAdapterCoerceMultivaluedRejectsScalar(t *testing.T) {
	a := &Adapter{}
	if _, err := a.Coerce("not-a-slice", String, true); err == nil {
		t.Fatal("expected error coercing scalar input for a multivalued target")
	}
}

func TestAdapterCoerceMultivaluedElementwise(t *testing.T) {
	a := &Adapter{}
	got, err := a.Coerce([]any{"1", "2", "3"}, Integer, true)
	if err != nil {
		t.Fatalf("Coerce error = %v", err)
	}
	items, ok := got.([]any)
	if !ok || len(items) != 3 {
		t.Fatalf("got %v, want 3 coerced elements", got)
	}
	for i, want := range []int64{1, 2, 3} {
		if items[i] != want {
			t.Errorf("element %d = %v, want %v", i, items[i], want)
		}
	}
}

func TestAdapterCoerceUUID(t *testing.T) {
	a := &Adapter{}
	id := uuid.New()
	got, err := a.Coerce(id.String(), UUID, false)
	if err != nil {
		t.Fatalf("Coerce error = %v", err)
	}
	if got.(uuid.UUID) != id {
		t.Errorf("got %v, want %v", got, id)
	}
}

func TestAdapterCoerceBigIntegerOverflowRejected(t *testing.T) {
	a := &Adapter{}
	huge, _ := new(big.Int).SetString("999999999999999999999999999999", 10)
	if _, err := a.toInt64(huge); err == nil {
		t.Fatal("expected overflow error coercing oversized BigInteger to int64")
	}
}

func TestAdapterCoerceDateTimeDefaultsZone(t *testing.T) {
	zone := time.FixedZone("UTC+1", 3600)
	a := &Adapter{Zone: zone}
	got, err := a.Coerce("2024-01-02T03:04:05", DateTime, false)
	if err != nil {
		t.Fatalf("Coerce error = %v", err)
	}
	tm := got.(time.Time)
	if tm.Year() != 2024 || tm.Month() != 1 || tm.Day() != 2 {
		t.Errorf("got %v, want 2024-01-02", tm)
	}
	if tm.Location() != zone {
		t.Errorf("location = %v, want %v", tm.Location(), zone)
	}
}

func TestHashStability(t *testing.T) {
	h1 := Hash(int64(42), Integer)
	h2 := Hash(int64(42), Integer)
	if h1 != h2 {
		t.Errorf("Hash not stable: %d != %d", h1, h2)
	}
	h3 := Hash(int64(43), Integer)
	if h1 == h3 {
		t.Errorf("Hash collided for distinct values: %d", h1)
	}
}

func TestHashNullMarker(t *testing.T) {
	h1 := Hash(nil, String)
	h2 := Hash(nil, Integer)
	if h1 != h2 {
		t.Errorf("null hash should not depend on PropertyType: %d != %d", h1, h2)
	}
}
