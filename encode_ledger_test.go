package intcap

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/intcap/intcap/date"
)

func TestEncodeDecodeLedger(t *testing.T) {
	l := testChain(t)
	id := l.Assets()[0].ID
	mustAppend(t, l, NewRetire(id, date.New(2026, 2, 15), eur(900), devRef("research"), "alice"))
	mustAppend(t, l, NewReconcile(id, date.New(2026, 2, 20), eur(25), []uint64{4}, "rounding", "alice"))

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Currency() != "EUR" {
		t.Errorf("decoded currency = %s", decoded.Currency())
	}
	if decoded.Len() != l.Len() {
		t.Fatalf("decoded %d entries, want %d", decoded.Len(), l.Len())
	}
	if decoded.TailDigest() != l.TailDigest() {
		t.Error("decoded tail digest does not match")
	}

	// the derived index must rebuild identically
	want, _ := l.Asset(id)
	got, ok := decoded.Asset(id)
	if !ok {
		t.Fatal("decoded ledger misses the asset")
	}
	if got.State != want.State || !got.BookValue.Equal(want.BookValue) ||
		!got.Allocated.Equal(want.Allocated) || !got.Utilized.Equal(want.Utilized) {
		t.Errorf("decoded asset = %+v, want %+v", got, want)
	}
	if len(decoded.DepreciatedPeriods(id)) != 1 {
		t.Errorf("decoded %d depreciated periods, want 1", len(decoded.DepreciatedPeriods(id)))
	}
}

func TestDecodeLedgerRefusesTamperedFile(t *testing.T) {
	l := testChain(t)
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatal(err)
	}

	// flip the allocation amount in the raw file
	tampered := strings.Replace(buf.String(), `"amount":1000`, `"amount":900000`, 1)
	_, err := DecodeLedger(strings.NewReader(tampered))
	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("tampered file decodes: %v", err)
	}
}

func TestDecodeLedgerRefusesReorderedFile(t *testing.T) {
	l := testChain(t)
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// swap two entries, header stays first
	lines[2], lines[3] = lines[3], lines[2]
	_, err := DecodeLedger(strings.NewReader(strings.Join(lines, "\n")))
	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("reordered file decodes: %v", err)
	}
}

// A file can be chain-consistent and still carry events the ledger would
// never have accepted; decoding must refuse it instead of building a
// corrupt index.
func TestDecodeLedgerRefusesChainValidButInvalidEvents(t *testing.T) {
	seal := func(t *testing.T, ev CapitalEvent) string {
		t.Helper()
		e := Entry{Seq: 1, Event: ev, Balance: eur(0)}
		digest, err := e.computeDigest()
		if err != nil {
			t.Fatal(err)
		}
		e.Digest = digest
		var buf bytes.Buffer
		buf.WriteString(`{"version":1,"currency":"EUR"}` + "\n")
		if err := EncodeEntry(&buf, e); err != nil {
			t.Fatal(err)
		}
		return buf.String()
	}

	// an allocation for an asset the file never capitalized
	orphaned := seal(t, NewAllocate(uuid.New(), date.New(2026, 1, 20), "research", eur(100), devRef("research"), "alice"))
	if _, err := DecodeLedger(strings.NewReader(orphaned)); !errors.Is(err, ErrValidation) {
		t.Errorf("allocate for unknown asset decodes: %v", err)
	}

	// a capitalization without a depreciation method
	headless := seal(t, NewCapitalize(uuid.New(), date.New(2026, 1, 15), "research", eur(1000), nil, devRef("research"), "alice"))
	if _, err := DecodeLedger(strings.NewReader(headless)); !errors.Is(err, ErrValidation) {
		t.Errorf("capitalize without method decodes: %v", err)
	}
}

func TestDecodeLedgerRefusesBadHeader(t *testing.T) {
	if _, err := DecodeLedger(strings.NewReader("")); err == nil {
		t.Error("empty file decodes")
	}
	if _, err := DecodeLedger(strings.NewReader(`{"version":99,"currency":"EUR"}`)); err == nil {
		t.Error("unknown version decodes")
	}
	if _, err := DecodeLedger(strings.NewReader(`{"version":1}`)); err == nil {
		t.Error("header without currency decodes")
	}
}

func TestEncodeEntryRoundTripsEveryKind(t *testing.T) {
	l := testChain(t)
	id := l.Assets()[0].ID
	mustAppend(t, l, NewRetire(id, date.New(2026, 2, 15), eur(900), devRef("research"), "alice"))
	mustAppend(t, l, NewReconcile(id, date.New(2026, 2, 20), eur(25), []uint64{4}, "rounding", "alice"))

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for seq, e := range decoded.Entries(0, 0) {
		orig, _ := l.Entry(seq)
		if e.Event.Kind() != orig.Event.Kind() {
			t.Errorf("entry %d kind = %s, want %s", seq, e.Event.Kind(), orig.Event.Kind())
		}
		if !e.Event.Delta().Equal(orig.Event.Delta()) {
			t.Errorf("entry %d delta = %s, want %s", seq, e.Event.Delta(), orig.Event.Delta())
		}
	}
}
