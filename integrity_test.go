package intcap

import (
	"context"
	"errors"
	"testing"

	"github.com/intcap/intcap/date"
)

func testChain(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)
	mustAppend(t, l, NewAllocate(id, date.New(2026, 1, 20), "research", eur(1000), devRef("research"), "alice"))
	mustAppend(t, l, NewUtilize(id, date.New(2026, 1, 25), eur(1000), devRef("research"), "alice"))
	mustAppend(t, l, NewDepreciate(id, date.New(2026, 1, 31), eur(100), date.NewRange(date.New(2026, 1, 31), date.Monthly), "system"))
	return l
}

func TestCheckCleanLedger(t *testing.T) {
	l := testChain(t)
	if err := Check(context.Background(), l); err != nil {
		t.Fatalf("clean ledger fails the suite: %v", err)
	}
}

func TestVerifyChainDetectsTampering(t *testing.T) {
	l := testChain(t)

	// mutate a sealed entry behind the ledger's back
	tampered := l.entries[1]
	if ev, ok := tampered.Event.(Allocate); ok {
		ev.Amount = eur(999999)
		tampered.Event = ev
	}
	l.entries[1] = tampered

	err := VerifyChain(context.Background(), l, 0, 0)
	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("tampered ledger verifies: %v", err)
	}
	if chainErr.Seq != 2 {
		t.Errorf("break reported at entry %d, want 2", chainErr.Seq)
	}
}

func TestVerifyChainDetectsBrokenBackLink(t *testing.T) {
	l := testChain(t)
	l.entries[2].Prev = "0000000000000000"

	err := VerifyChain(context.Background(), l, 0, 0)
	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("broken back-link verifies: %v", err)
	}
	if chainErr.Seq != 3 {
		t.Errorf("break reported at entry %d, want 3", chainErr.Seq)
	}
}

func TestVerifyChainPartialRange(t *testing.T) {
	l := testChain(t)
	if err := VerifyChain(context.Background(), l, 2, 4); err != nil {
		t.Fatalf("partial range on a clean ledger: %v", err)
	}
}

func TestVerifyBalance(t *testing.T) {
	l := testChain(t)
	january := date.NewRange(date.New(2026, 1, 1), date.Monthly)
	if err := VerifyBalance(context.Background(), l, january); err != nil {
		t.Fatalf("balanced period fails: %v", err)
	}
}

func TestVerifyOwnershipDetectsOrphan(t *testing.T) {
	l := testChain(t)

	// rewrite the utilization's attribution owner in place
	tampered := l.entries[2]
	if ev, ok := tampered.Event.(Utilize); ok {
		ev.Attribution.Owner = "nobody"
		tampered.Event = ev
	}
	l.entries[2] = tampered

	err := VerifyOwnership(context.Background(), l, 0, 0)
	var orphan *OrphanError
	if !errors.As(err, &orphan) {
		t.Fatalf("orphaned utilization verifies: %v", err)
	}
	if orphan.Seq != 3 || orphan.Owner != "nobody" {
		t.Errorf("orphan reported as entry %d owner %q", orphan.Seq, orphan.Owner)
	}
}

func TestVerifyOwnershipDetectsStrippedReference(t *testing.T) {
	l := testChain(t)

	tampered := l.entries[1]
	if ev, ok := tampered.Event.(Allocate); ok {
		ev.Attribution = Attribution{}
		tampered.Event = ev
	}
	l.entries[1] = tampered

	err := VerifyOwnership(context.Background(), l, 0, 0)
	var orphan *OrphanError
	if !errors.As(err, &orphan) {
		t.Fatalf("reference-less allocation verifies: %v", err)
	}
	if orphan.Seq != 2 {
		t.Errorf("orphan reported at entry %d, want 2", orphan.Seq)
	}
}

func TestVerifyOwnershipDetectsStrippedRetirement(t *testing.T) {
	l := testChain(t)
	id := l.Assets()[0].ID
	mustAppend(t, l, NewRetire(id, date.New(2026, 2, 15), eur(900), devRef("research"), "alice"))

	tampered := l.entries[4]
	if ev, ok := tampered.Event.(Retire); ok {
		ev.Attribution = Attribution{}
		tampered.Event = ev
	}
	l.entries[4] = tampered

	err := VerifyOwnership(context.Background(), l, 0, 0)
	var orphan *OrphanError
	if !errors.As(err, &orphan) {
		t.Fatalf("reference-less retirement verifies: %v", err)
	}
	if orphan.Seq != 5 {
		t.Errorf("orphan reported at entry %d, want 5", orphan.Seq)
	}
}

func TestVerifyHonorsContext(t *testing.T) {
	l := testChain(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := VerifyChain(ctx, l, 0, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled verification = %v, want context.Canceled", err)
	}
}
