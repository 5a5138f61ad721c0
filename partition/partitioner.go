package partition

import "fmt"

// Strategy selects how the Partitioner distributes spectra across
// divisions (spec.md §4.3 "Rationale": the source ships both an
// equal-spectrum-count path and a byte-balanced path).
type Strategy uint8

const (
	// BySpectrumCount splits spectra into equal-sized runs (the default):
	// a coarse proxy for equal work, but avoids a second pass over the
	// binary payload sizes.
	BySpectrumCount Strategy = iota
	// ByBinaryVolume balances the summed m/z + intensity binary byte count
	// across divisions instead of spectrum count, trading a second linear
	// pass for better load balance when per-spectrum array lengths vary
	// widely.
	ByBinaryVolume
)

// Partition splits the encapsulating division (the single division
// produced by the Position Scanner, spanning the whole document) into
// workers+1 divisions: the first `workers` hold a share of the spectra
// (by count or by binary volume depending on strategy), and the last holds
// only the xml suffix following the final spectrum's tail (spec.md §4.3).
//
// If workers is greater than the spectrum count, fewer divisions are
// produced: one per spectrum plus the trailing division (spec.md §8
// "Boundaries").
func Partition(enc Division, workers int, strategy Strategy) (Set, error) {
	if workers < 1 {
		return Set{}, fmt.Errorf("partition: workers must be >= 1, got %d", workers)
	}

	n := enc.SpectrumCount()
	if n == 0 {
		// No spectra at all: a single division holding only the xml table
		// (which is the trailing-tail span emitted by the scanner).
		return Set{Divisions: []Division{enc}, FileSize: enc.Size}, nil
	}

	if workers > n {
		workers = n
	}

	bounds, err := splitBounds(enc, n, workers, strategy)
	if err != nil {
		return Set{}, err
	}

	divisions := make([]Division, 0, workers+1)
	for i := 0; i < workers; i++ {
		lo, hi := bounds[i], bounds[i+1]
		divisions = append(divisions, sliceDivision(enc, lo, hi))
	}

	// Trailing division: the document's final xml span (index 2n, the
	// scanner's end-of-file tail), the only xml span no worker division
	// above owns — each owns exactly its own spectra's head/mid spans,
	// xml [2*lo, 2*hi), and nothing past them.
	trailing := Division{}
	lastXMLIdx := enc.XML.Len() - 1
	trailing.XML = enc.XML.Slice(lastXMLIdx, lastXMLIdx+1)
	trailing.recomputeSize()

	divisions = append(divisions, trailing)

	set := Set{Divisions: divisions, FileSize: enc.Size}
	if err := set.Validate(); err != nil {
		return Set{}, fmt.Errorf("partition: %w", err)
	}

	return set, nil
}

// splitBounds returns workers+1 spectrum-index boundaries [0, ..., n]
// dividing the n spectra into `workers` contiguous runs.
func splitBounds(enc Division, n, workers int, strategy Strategy) ([]int, error) {
	switch strategy {
	case BySpectrumCount:
		return splitByCount(n, workers), nil
	case ByBinaryVolume:
		return splitByVolume(enc, n, workers), nil
	default:
		return nil, fmt.Errorf("partition: unknown strategy %d", strategy)
	}
}

// splitByCount assigns floor(n/workers) spectra to each of the first
// workers-1 divisions, and the remainder to the last (spec.md §4.3).
func splitByCount(n, workers int) []int {
	base := n / workers
	rem := n % workers

	bounds := make([]int, workers+1)
	cur := 0
	for i := 0; i < workers; i++ {
		bounds[i] = cur
		size := base
		if i == workers-1 {
			size += rem
		}
		cur += size
	}
	bounds[workers] = n

	return bounds
}

// splitByVolume walks cumulative (m/z + intensity) byte volume and places
// boundaries at the spectrum closest to each 1/workers fraction of the
// total, guaranteeing monotonically increasing, in-range boundaries.
func splitByVolume(enc Division, n, workers int) []int {
	cum := make([]int64, n+1)
	for i := 0; i < n; i++ {
		span := (enc.Mz.End[i] - enc.Mz.Start[i]) + (enc.Intensity.End[i] - enc.Intensity.Start[i])
		cum[i+1] = cum[i] + span
	}
	total := cum[n]

	bounds := make([]int, workers+1)
	bounds[0] = 0
	bounds[workers] = n
	if total == 0 {
		return splitByCount(n, workers)
	}

	nextIdx := 1
	for w := 1; w < workers; w++ {
		target := total * int64(w) / int64(workers)
		idx := nextIdx
		for idx < n && cum[idx] < target {
			idx++
		}
		if idx <= bounds[w-1] {
			idx = bounds[w-1] + 1
		}
		if idx > n {
			idx = n
		}
		bounds[w] = idx
		nextIdx = idx
	}

	return bounds
}

// sliceDivision builds the division covering spectra [lo, hi) of the
// encapsulating division, including the xml head/mid spans that belong to
// those spectra: xml spans [2*lo, 2*hi). Span 2*hi (the head of spectrum
// hi, or the document's final tail when hi == n) belongs to the next
// division, or the trailing division for the last one — never to this one,
// so adjacent divisions never share an xml span.
func sliceDivision(enc Division, lo, hi int) Division {
	d := Division{
		Mz:        enc.Mz.Slice(lo, hi),
		Intensity: enc.Intensity.Slice(lo, hi),
		Meta:      enc.Meta.Slice(lo, hi),
		XML:       enc.XML.Slice(2*lo, 2*hi),
		Spectra:   enc.Spectra.Slice(lo, hi),
	}
	d.recomputeSize()

	return d
}
