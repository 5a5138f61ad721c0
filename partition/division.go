package partition

import "fmt"

// SpectrumMeta carries the per-spectrum attributes recorded by the Position
// Scanner (spec.md §3 "Spectrum record"): scan number, MS level, and
// retention time. The byte ranges themselves live in the division's three
// position tables, indexed in parallel with these slices.
type SpectrumMeta struct {
	ScanNumber    []int32
	MSLevel       []int8
	RetentionTime []float64
}

// Len returns the number of spectra this metadata describes.
func (m *SpectrumMeta) Len() int { return len(m.ScanNumber) }

func (m *SpectrumMeta) Append(scanNumber int32, msLevel int8, retentionTime float64) {
	m.ScanNumber = append(m.ScanNumber, scanNumber)
	m.MSLevel = append(m.MSLevel, msLevel)
	m.RetentionTime = append(m.RetentionTime, retentionTime)
}

// Slice returns the [i, j) sub-range of metadata.
func (m *SpectrumMeta) Slice(i, j int) SpectrumMeta {
	return SpectrumMeta{
		ScanNumber:    append([]int32(nil), m.ScanNumber[i:j]...),
		MSLevel:       append([]int8(nil), m.MSLevel[i:j]...),
		RetentionTime: append([]float64(nil), m.RetentionTime[i:j]...),
	}
}

// Division is a contiguous subrange of the spectrum records, carrying three
// aligned position tables and its summed uncompressed byte size (spec.md §3
// "Division (partition)").
type Division struct {
	XML       PositionTable
	Mz        PositionTable
	Intensity PositionTable
	Meta      SpectrumMeta

	// Spectra holds each spectrum's true absolute `<spectrum>`...`</spectrum>`
	// boundary, distinct from XML's head/mid/tail spans (which run from the
	// previous spectrum's intensity end to this one's m/z start, and so
	// include trailing bytes of the previous spectrum). The Extractor uses
	// Spectra to trim that overlap when a requested range does not begin at
	// a division boundary (spec.md §4.8).
	Spectra PositionTable

	// Size is the sum of span lengths across all three tables (xml, m/z,
	// intensity; Spectra is a derived view over the same bytes and is not
	// counted again).
	Size int64
}

// SpectrumCount returns the number of spectra covered by this division. A
// trailing division that holds only residual xml after the last spectrum
// has SpectrumCount() == 0.
func (d *Division) SpectrumCount() int { return d.Mz.Len() }

// recomputeSize sets Size from the three position tables. Called after the
// tables are fully populated.
func (d *Division) recomputeSize() {
	d.Size = d.XML.Total() + d.Mz.Total() + d.Intensity.Total()
}

// Validate checks spec.md §8's per-partition invariant: the sum of the three
// tables' span lengths equals Size, and each table independently satisfies
// the Position-table invariants.
func (d *Division) Validate() error {
	if err := d.XML.Validate(); err != nil {
		return err
	}
	if err := d.Mz.Validate(); err != nil {
		return err
	}
	if err := d.Intensity.Validate(); err != nil {
		return err
	}
	if err := d.Spectra.Validate(); err != nil {
		return err
	}
	if d.Spectra.Len() != d.Mz.Len() {
		return fmt.Errorf("division: spectra table has %d entries, want %d (one per m/z span)", d.Spectra.Len(), d.Mz.Len())
	}
	if got, want := d.XML.Total()+d.Mz.Total()+d.Intensity.Total(), d.Size; got != want {
		return fmt.Errorf("division: size mismatch: span total %d != recorded size %d", got, want)
	}

	return nil
}

// Set is the ordered sequence of divisions covering every byte of the
// source document exactly once (spec.md §3 "Division set").
type Set struct {
	Divisions []Division
	// FileSize is the size of the source document these divisions
	// partition; sum(Divisions[i].Size) must equal it.
	FileSize int64
}

// TotalSize returns the sum of every division's Size.
func (s *Set) TotalSize() int64 {
	var sum int64
	for i := range s.Divisions {
		sum += s.Divisions[i].Size
	}

	return sum
}

// TotalSpectrumCount returns the sum of every division's spectrum count.
func (s *Set) TotalSpectrumCount() int {
	var n int
	for i := range s.Divisions {
		n += s.Divisions[i].SpectrumCount()
	}

	return n
}

// Validate checks spec.md §8's division-set invariants: every division is
// internally valid, and the set's total size equals FileSize.
func (s *Set) Validate() error {
	for i := range s.Divisions {
		if err := s.Divisions[i].Validate(); err != nil {
			return fmt.Errorf("division %d: %w", i, err)
		}
	}
	if got := s.TotalSize(); got != s.FileSize {
		return fmt.Errorf("division set: total size %d != filesize %d", got, s.FileSize)
	}

	return nil
}
