package intcap

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/intcap/intcap/date"
	"github.com/shopspring/decimal"
)

// test fixtures shared by the package tests.

func eur(v int64) Money { return M(v, "EUR") }

func devRef(owner string) Attribution {
	return Attribution{
		Source: "icae",
		Record: "rec-001",
		Owner:  owner,
		Metric: decimal.NewFromInt(1000),
		On:     date.New(2026, 1, 15),
	}
}

// newTestAsset capitalizes one straight-line asset and returns its id.
func newTestAsset(t *testing.T, l *Ledger, value, perPeriod int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	ev := NewCapitalize(id, date.New(2026, 1, 15), "research", eur(value),
		StraightLine{PerPeriod: eur(perPeriod), Floor: eur(0)}, devRef("research"), "alice")
	if _, err := l.Append(ev); err != nil {
		t.Fatalf("capitalize: %v", err)
	}
	return id
}

func TestAppendSequencesFromOne(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)

	e, ok := l.Entry(1)
	if !ok {
		t.Fatal("entry 1 not found")
	}
	if e.Seq != 1 {
		t.Errorf("first entry seq = %d, want 1", e.Seq)
	}
	if e.Prev != "" {
		t.Errorf("first entry prev = %q, want empty", e.Prev)
	}
	if e.Digest == "" {
		t.Error("first entry has no digest")
	}
	if e.Event.Asset() != id {
		t.Errorf("entry asset = %s, want %s", e.Event.Asset(), id)
	}
}

func TestAppendChainsDigests(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)
	if _, err := l.Append(NewAllocate(id, date.New(2026, 2, 1), "research", eur(400), devRef("research"), "alice")); err != nil {
		t.Fatalf("allocate: %v", err)
	}

	e1, _ := l.Entry(1)
	e2, _ := l.Entry(2)
	if e2.Prev != e1.Digest {
		t.Errorf("entry 2 prev = %q, want digest of entry 1 %q", e2.Prev, e1.Digest)
	}
	if e2.Digest == e1.Digest {
		t.Error("consecutive entries share a digest")
	}
}

func TestAppendAtConflict(t *testing.T) {
	l := NewLedger("EUR")
	newTestAsset(t, l, 1000, 100)

	// expect the empty tail while the ledger already has one entry
	id := uuid.New()
	ev := NewCapitalize(id, date.New(2026, 3, 1), "ops", eur(500),
		StraightLine{PerPeriod: eur(50), Floor: eur(0)}, devRef("ops"), "bob")
	_, err := l.AppendAt(0, ev)
	if !errors.Is(err, ErrConcurrentWrite) {
		t.Fatalf("AppendAt with stale tail = %v, want ErrConcurrentWrite", err)
	}
	if l.Len() != 1 {
		t.Errorf("conflicting append wrote an entry, len = %d", l.Len())
	}

	// retrying against the real tail succeeds
	if _, err := l.AppendAt(1, ev); err != nil {
		t.Fatalf("AppendAt with fresh tail: %v", err)
	}
}

func TestAppendRejectsForeignCurrency(t *testing.T) {
	l := NewLedger("EUR")
	id := uuid.New()
	ev := NewCapitalize(id, date.New(2026, 1, 15), "research", M(1000, "USD"),
		StraightLine{PerPeriod: M(100, "USD"), Floor: M(0, "USD")}, devRef("research"), "alice")
	if _, err := l.Append(ev); !errors.Is(err, ErrValidation) {
		t.Fatalf("append USD on EUR ledger = %v, want ErrValidation", err)
	}
}

func TestValidationFailureWritesNothing(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)

	// allocating more than the book value must be refused
	_, err := l.Append(NewAllocate(id, date.New(2026, 2, 1), "research", eur(2000), devRef("research"), "alice"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("over-allocation = %v, want ErrValidation", err)
	}
	if l.Len() != 1 {
		t.Errorf("rejected event left a trace, len = %d", l.Len())
	}
	if got := l.TailSeq(); got != 1 {
		t.Errorf("tail moved to %d after a rejected event", got)
	}
}

func TestBookValueReplay(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)
	mustAppend(t, l, NewAllocate(id, date.New(2026, 1, 20), "research", eur(1000), devRef("research"), "alice"))
	mustAppend(t, l, NewUtilize(id, date.New(2026, 1, 25), eur(1000), devRef("research"), "alice"))
	mustAppend(t, l, NewDepreciate(id, date.New(2026, 1, 31), eur(100), date.NewRange(date.New(2026, 1, 31), date.Monthly), "system"))

	tests := []struct {
		asOf date.Date
		want Money
	}{
		{date.New(2026, 1, 15), eur(1000)},
		{date.New(2026, 1, 28), eur(1000)}, // allocation and utilization do not change the book
		{date.New(2026, 1, 31), eur(900)},
		{date.New(2026, 6, 1), eur(900)},
	}
	for _, tt := range tests {
		got, err := l.BookValue(id, tt.asOf)
		if err != nil {
			t.Fatalf("BookValue(%s): %v", tt.asOf, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("BookValue(%s) = %s, want %s", tt.asOf, got, tt.want)
		}
	}
}

func TestEntriesSnapshotRange(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)
	mustAppend(t, l, NewAllocate(id, date.New(2026, 1, 20), "research", eur(500), devRef("research"), "alice"))
	mustAppend(t, l, NewAllocate(id, date.New(2026, 1, 21), "research", eur(500), devRef("research"), "alice"))

	var seqs []uint64
	for seq, e := range l.Entries(2, 3) {
		if seq != e.Seq {
			t.Errorf("iteration seq %d does not match entry seq %d", seq, e.Seq)
		}
		seqs = append(seqs, seq)
	}
	if len(seqs) != 2 || seqs[0] != 2 || seqs[1] != 3 {
		t.Errorf("Entries(2,3) yielded %v", seqs)
	}
}

func mustAppend(t *testing.T, l *Ledger, ev CapitalEvent) Entry {
	t.Helper()
	e, err := l.Append(ev)
	if err != nil {
		t.Fatalf("append %s: %v", ev.Kind(), err)
	}
	return e
}

// TestFullLifecycleScenario follows one asset from capitalization to
// retirement and checks the derived figures at each step.
func TestFullLifecycleScenario(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)

	mustAppend(t, l, NewAllocate(id, date.New(2026, 1, 20), "research", eur(1000), devRef("research"), "alice"))
	mustAppend(t, l, NewUtilize(id, date.New(2026, 1, 25), eur(1000), devRef("research"), "alice"))
	mustAppend(t, l, NewDepreciate(id, date.New(2026, 1, 31), eur(100), date.NewRange(date.New(2026, 1, 31), date.Monthly), "system"))

	a, ok := l.Asset(id)
	if !ok {
		t.Fatal("asset not indexed")
	}
	if !a.BookValue.Equal(eur(900)) {
		t.Errorf("book value = %s, want %s", a.BookValue, eur(900))
	}
	if a.State != Depreciating {
		t.Errorf("state = %s, want depreciating", a.State)
	}
	if l.Len() != 4 {
		t.Errorf("chain length = %d, want 4", l.Len())
	}

	// retire the rest
	mustAppend(t, l, NewRetire(id, date.New(2026, 2, 15), eur(900), devRef("research"), "alice"))
	a, _ = l.Asset(id)
	if a.State != Retired {
		t.Fatalf("state = %s, want retired", a.State)
	}
	if !a.BookValue.IsZero() {
		t.Errorf("retired book value = %s, want zero", a.BookValue)
	}

	// a retired asset accepts reconciliation and nothing else
	if _, err := l.Append(NewAllocate(id, date.New(2026, 3, 1), "research", eur(10), devRef("research"), "alice")); !errors.Is(err, ErrValidation) {
		t.Errorf("allocate on retired asset = %v, want ErrValidation", err)
	}
	if _, err := l.Append(NewReconcile(id, date.New(2026, 3, 1), eur(50), []uint64{4}, "late correction", "alice")); err != nil {
		t.Errorf("reconcile on retired asset: %v", err)
	}
	a, _ = l.Asset(id)
	if !a.BookValue.Equal(eur(50)) {
		t.Errorf("book value after reconciliation = %s, want %s", a.BookValue, eur(50))
	}
}

func TestConcurrentAppends(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)

	const writers = 8
	done := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			_, err := l.Append(NewAllocate(id, date.New(2026, 2, 1), "research", eur(100), devRef("research"), "alice"))
			done <- err
		}()
	}
	for i := 0; i < writers; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent append: %v", err)
		}
	}
	if l.Len() != 1+writers {
		t.Fatalf("chain length = %d, want %d", l.Len(), 1+writers)
	}
	// the chain must still link after racing writers
	for seq := uint64(2); seq <= uint64(l.Len()); seq++ {
		prev, _ := l.Entry(seq - 1)
		e, _ := l.Entry(seq)
		if e.Prev != prev.Digest {
			t.Fatalf("entry %d prev does not match entry %d digest", seq, seq-1)
		}
	}
}
