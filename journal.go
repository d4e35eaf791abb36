package intcap

import (
	"fmt"

	"github.com/intcap/intcap/date"
	"github.com/shopspring/decimal"
)

// Account is one of the fixed chart of accounts. The chart is closed:
// every event kind maps to a known debit/credit pair, and the derivation
// refuses anything it does not recognize.
type Account string

const (
	AccountAsset          Account = "Intelligence-Capital-Asset"
	AccountContribution   Account = "Capital-Contribution"
	AccountAllocated      Account = "Allocated-Intelligence-Capital"
	AccountUtilization    Account = "Utilization-Cost"
	AccountDepreciation   Account = "Depreciation-Expense"
	AccountWriteOff       Account = "Retirement-Write-Off"
	AccountReconciliation Account = "Reconciliation-Adjustment"
)

// Side of a journal line.
type Side string

const (
	Debit  Side = "debit"
	Credit Side = "credit"
)

// Line is one side of a double-entry posting.
type Line struct {
	Account Account
	Side    Side
	Amount  Money
}

func (ln Line) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account", ln.Account)
	w.Append("side", ln.Side)
	w.Append("amount", ln.Amount)
	return w.MarshalJSON()
}

// JournalEntry is the double-entry projection of one ledger entry. The
// journal is derived, never stored: it is recomputed from the chain on
// demand and carries the source sequence number for traceability.
type JournalEntry struct {
	Seq   uint64 // sequence of the source ledger entry
	On    date.Date
	Kind  string
	Lines []Line
}

func (j JournalEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("seq", j.Seq)
	w.Append("on", j.On)
	w.Append("kind", j.Kind)
	w.Append("lines", j.Lines)
	return w.MarshalJSON()
}

// debits sums the entry's debit lines.
func (j JournalEntry) debits() Money {
	sum := Money{}
	for _, ln := range j.Lines {
		if ln.Side == Debit {
			sum = sum.Add(ln.Amount)
		}
	}
	return sum
}

// credits sums the entry's credit lines.
func (j JournalEntry) credits() Money {
	sum := Money{}
	for _, ln := range j.Lines {
		if ln.Side == Credit {
			sum = sum.Add(ln.Amount)
		}
	}
	return sum
}

// dual builds the canonical two-line posting.
func dual(dr, cr Account, amount Money) []Line {
	return []Line{
		{Account: dr, Side: Debit, Amount: amount},
		{Account: cr, Side: Credit, Amount: amount},
	}
}

// DeriveJournal maps a ledger entry to its double-entry posting. The
// derivation is checked: a posting whose debits and credits disagree is
// an internal defect and fails with ErrUnbalancedDerivation rather than
// entering the books.
func DeriveJournal(e Entry) (JournalEntry, error) {
	j := JournalEntry{Seq: e.Seq, On: e.Event.When(), Kind: e.Event.Kind()}

	switch ev := e.Event.(type) {
	case Capitalize:
		j.Lines = dual(AccountAsset, AccountContribution, ev.Value)
	case Allocate:
		j.Lines = dual(AccountAllocated, AccountAsset, ev.Amount)
	case Utilize:
		j.Lines = dual(AccountUtilization, AccountAllocated, ev.Amount)
	case Depreciate:
		j.Lines = dual(AccountDepreciation, AccountAsset, ev.Amount)
	case Retire:
		j.Lines = dual(AccountWriteOff, AccountAsset, ev.WriteOff)
	case Reconcile:
		if ev.Amount.IsNegative() {
			j.Lines = dual(AccountReconciliation, AccountAsset, ev.Amount.Abs())
		} else {
			j.Lines = dual(AccountAsset, AccountReconciliation, ev.Amount)
		}
	default:
		return JournalEntry{}, fmt.Errorf("%w: no posting for event kind %q at entry %d", ErrUnbalancedDerivation, e.Event.Kind(), e.Seq)
	}

	if !j.debits().Equal(j.credits()) {
		return JournalEntry{}, fmt.Errorf("%w: entry %d posts %s against %s", ErrUnbalancedDerivation, e.Seq, j.debits(), j.credits())
	}
	return j, nil
}

// JournalBatch is the derived journal for one accounting period, with
// the period's debit and credit totals.
type JournalBatch struct {
	Period  date.Range
	Entries []JournalEntry
	Debits  Money
	Credits Money
}

// DeriveBatch derives the journal for every ledger entry dated within the
// period and checks that the batch totals balance. Derivation halts on
// the first entry that fails to map.
func DeriveBatch(l *Ledger, period date.Range) (JournalBatch, error) {
	b := JournalBatch{
		Period:  period,
		Debits:  M(decimal.Zero, l.Currency()),
		Credits: M(decimal.Zero, l.Currency()),
	}
	for _, e := range l.Entries(0, 0) {
		if !period.Contains(e.Event.When()) {
			continue
		}
		j, err := DeriveJournal(e)
		if err != nil {
			return JournalBatch{}, err
		}
		b.Entries = append(b.Entries, j)
		b.Debits = b.Debits.Add(j.debits())
		b.Credits = b.Credits.Add(j.credits())
	}
	if !b.Debits.Equal(b.Credits) {
		return JournalBatch{}, fmt.Errorf("%w: period %s posts %s against %s", ErrUnbalancedDerivation, period, b.Debits, b.Credits)
	}
	return b, nil
}
