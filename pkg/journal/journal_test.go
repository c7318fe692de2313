package journal

import (
	"path/filepath"
	"testing"

	"github.com/Zane-/cryptobot/pkg/types"
)

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.msgpack"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.Len() != 0 {
		t.Fatalf("expected empty journal, got %d entries", j.Len())
	}
	if _, ok := j.Last(); ok {
		t.Fatal("expected no last entry")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "journal.msgpack")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	j.Append(&types.OrderRecord{ID: "o-1", Symbol: "XLMETH", Side: types.OrderSideSell, FilledQty: 50})
	j.Append(&types.OrderRecord{ID: "o-2", Symbol: "LTCETH", Side: types.OrderSideBuy, FilledQty: 0.2})
	if err := j.Snapshot(); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", reloaded.Len())
	}
	last, ok := reloaded.Last()
	if !ok {
		t.Fatal("expected a last entry")
	}
	if last.Order.ID != "o-2" || last.Order.Symbol != "LTCETH" {
		t.Fatalf("unexpected last entry: %+v", last.Order)
	}
	if last.Time.IsZero() {
		t.Fatal("expected entry time to survive the round trip")
	}
}

func TestSymbolsDeduplicates(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.msgpack"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	j.Append(&types.OrderRecord{ID: "o-1", Symbol: "XLMETH"})
	j.Append(&types.OrderRecord{ID: "o-2", Symbol: "LTCETH"})
	j.Append(&types.OrderRecord{ID: "o-3", Symbol: "XLMETH"})

	symbols := j.Symbols()
	if len(symbols) != 2 || symbols[0] != "XLMETH" || symbols[1] != "LTCETH" {
		t.Fatalf("unexpected symbols: %v", symbols)
	}
}
