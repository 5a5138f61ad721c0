// Package partition implements the Position table, Division, and Division
// set data model (spec.md §3) and the Partitioner (spec.md §4.3).
package partition

import "fmt"

// PositionTable is an ordered sequence of absolute file-offset spans of a
// single kind (spec.md §3 "Position table"). Start and End run in lockstep;
// index i is the span (Start[i], End[i]).
//
// Invariants: monotonic non-decreasing across the sequence; End[i] >=
// Start[i]; empty spans (End[i] == Start[i]) are permitted and preserve
// alignment.
type PositionTable struct {
	Start []int64
	End   []int64
}

// Len returns the number of spans.
func (t *PositionTable) Len() int { return len(t.Start) }

// Append adds a span, assuming the caller supplies spans in non-decreasing
// order (the scanner and partitioner both build tables this way).
func (t *PositionTable) Append(start, end int64) {
	t.Start = append(t.Start, start)
	t.End = append(t.End, end)
}

// Total returns the sum of span lengths, i.e. the total byte count this
// table covers.
func (t *PositionTable) Total() int64 {
	var sum int64
	for i := range t.Start {
		sum += t.End[i] - t.Start[i]
	}

	return sum
}

// Validate checks the Position-table invariants from spec.md §3.
func (t *PositionTable) Validate() error {
	if len(t.Start) != len(t.End) {
		return fmt.Errorf("position table: start/end length mismatch (%d != %d)", len(t.Start), len(t.End))
	}
	var lastEnd int64
	for i := range t.Start {
		if t.End[i] < t.Start[i] {
			return fmt.Errorf("position table: span %d has negative length (%d, %d)", i, t.Start[i], t.End[i])
		}
		if t.Start[i] < lastEnd {
			return fmt.Errorf("position table: span %d start %d precedes previous end %d", i, t.Start[i], lastEnd)
		}
		lastEnd = t.End[i]
	}

	return nil
}

// Slice returns the [i, j) sub-table, a new PositionTable sharing no
// backing array with the receiver's beyond the copied offsets.
func (t *PositionTable) Slice(i, j int) PositionTable {
	out := PositionTable{
		Start: append([]int64(nil), t.Start[i:j]...),
		End:   append([]int64(nil), t.End[i:j]...),
	}

	return out
}
