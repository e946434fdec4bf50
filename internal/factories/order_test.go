package factories

import "testing"

func TestCreateOrderRecords(t *testing.T) {
	f := NewOrderFactory(42, 2, 20)
	records := f.CreateOrderRecords(500)
	if len(records) != 500 {
		t.Fatalf("expected 500 records, got %d", len(records))
	}

	seen := make(map[string]bool)
	for _, r := range records {
		if r.ID == "" || seen[r.ID] {
			t.Fatalf("missing or duplicate id %q", r.ID)
		}
		seen[r.ID] = true
		if r.Name == "" {
			t.Fatalf("record %s has no name", r.ID)
		}
		if r.FulfilTime < 2 || r.FulfilTime > 20 || r.FulfilTime != float64(int(r.FulfilTime)) {
			t.Fatalf("fulfil time %g out of range", r.FulfilTime)
		}
	}
}

func TestOrderFactory_SeedIsDeterministic(t *testing.T) {
	a := NewOrderFactory(7, 1, 10).CreateOrderRecords(20)
	b := NewOrderFactory(7, 1, 10).CreateOrderRecords(20)
	for i := range a {
		if a[i].Name != b[i].Name || a[i].FulfilTime != b[i].FulfilTime {
			t.Fatalf("record %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestNewOrderFactory_SwapsReversedRange(t *testing.T) {
	f := NewOrderFactory(1, 9, 3)
	if f.MinPrepTime != 3 || f.MaxPrepTime != 9 {
		t.Fatalf("expected [3,9], got [%d,%d]", f.MinPrepTime, f.MaxPrepTime)
	}
}
