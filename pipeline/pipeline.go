// Package pipeline implements the Codec Pipeline (spec.md §4.5, §5): the
// parallel, partition-static worker stage that turns a scanned and
// partitioned document into the three compressed streams the Writer emits.
//
// Each division is processed by its own goroutine via golang.org/x/sync's
// errgroup.Group, matching the teacher's dependency graph — errgroup is
// carried in the retrieval pack by nabbar/golib — and giving "wait for all,
// report first failure" without hand-rolled WaitGroup/error-channel
// plumbing (spec.md §5 "Scheduling model").
package pipeline

import (
	"golang.org/x/sync/errgroup"

	"github.com/chrisagrams/mscompress/compress"
	"github.com/chrisagrams/mscompress/container"
	"github.com/chrisagrams/mscompress/format"
	"github.com/chrisagrams/mscompress/internal/pool"
	"github.com/chrisagrams/mscompress/partition"
	"github.com/chrisagrams/mscompress/payload"
	"github.com/chrisagrams/mscompress/transform"
)

// Params bundles everything a division worker needs, resolved once by the
// caller before any goroutine launches (spec.md §4.4 "selection matrix is
// resolved once at pipeline setup, not mid-stream").
type Params struct {
	Doc        []byte
	Descriptor format.Descriptor
	BlockSize  uint64

	MzTransform        transform.Transform
	IntensityTransform transform.Transform
	MzParams           transform.Params
	IntensityParams    transform.Params

	XMLCodec       compress.Codec
	MzCodec        compress.Codec
	IntensityCodec compress.Codec
}

// Run processes every division in set concurrently and returns the three
// assembled streams plus the per-division block-count records, in
// partition order, ready for container.Write (spec.md §5 "Ordering":
// "compressed blocks are emitted in partition order by joining worker
// results in that order before writing").
func Run(set partition.Set, p Params) ([]container.PartitionRecord, container.StreamBlocks, container.StreamBlocks, container.StreamBlocks, error) {
	results := make([]divisionResult, len(set.Divisions))

	var g errgroup.Group
	for i := range set.Divisions {
		i := i
		g.Go(func() error {
			r, err := processDivision(set.Divisions[i], p)
			if err != nil {
				return err
			}
			results[i] = r

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, container.StreamBlocks{}, container.StreamBlocks{}, container.StreamBlocks{}, err
	}

	records := make([]container.PartitionRecord, len(set.Divisions))
	var xml, mz, inten container.StreamBlocks

	for i, r := range results {
		records[i] = container.PartitionRecord{
			Division:  set.Divisions[i],
			XMLBlocks: uint32(len(r.xmlLengths)),
			MzBlocks:  uint32(len(r.mzLengths)),
			IntBlocks: uint32(len(r.intLengths)),
		}

		xml.Compressed = append(xml.Compressed, r.xmlCompressed...)
		xml.Lengths = append(xml.Lengths, r.xmlLengths...)
		mz.Compressed = append(mz.Compressed, r.mzCompressed...)
		mz.Lengths = append(mz.Lengths, r.mzLengths...)
		inten.Compressed = append(inten.Compressed, r.intCompressed...)
		inten.Lengths = append(inten.Lengths, r.intLengths...)
	}

	return records, xml, mz, inten, nil
}

// divisionResult is one division's contribution to the three streams, kept
// separate per worker so results can be joined in partition order after all
// workers finish (spec.md §5 "Ordering").
type divisionResult struct {
	xmlCompressed []byte
	xmlLengths    []container.BlockLengthEntry

	mzCompressed []byte
	mzLengths    []container.BlockLengthEntry

	intCompressed []byte
	intLengths    []container.BlockLengthEntry
}

// processDivision is the per-worker unit of work: one compression context
// (p.XMLCodec/MzCodec/IntensityCodec, reused across spectra), reading only
// through p.Doc (spec.md §5 "Resource discipline": "the memory-mapped
// source is read-only and shared").
func processDivision(div partition.Division, p Params) (divisionResult, error) {
	var r divisionResult

	xmlBuf := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(xmlBuf)
	xmlRaw := concatSpans(xmlBuf, p.Doc, div.XML)
	for _, chunk := range splitChunks(xmlRaw, p.BlockSize) {
		compressed, err := p.XMLCodec.Compress(chunk)
		if err != nil {
			return divisionResult{}, err
		}
		r.xmlCompressed = append(r.xmlCompressed, compressed...)
		r.xmlLengths = append(r.xmlLengths, container.BlockLengthEntry{
			OriginalSize:   uint64(len(chunk)),
			CompressedSize: uint64(len(compressed)),
		})
	}

	k := div.SpectrumCount()
	r.mzLengths = make([]container.BlockLengthEntry, 0, k)
	r.intLengths = make([]container.BlockLengthEntry, 0, k)

	for i := 0; i < k; i++ {
		mzBlock, err := encodeSpectrumBlock(p.Doc[div.Mz.Start[i]:div.Mz.End[i]], p.Descriptor.SourcePayloadCompress, p.MzTransform, p.MzParams, p.MzCodec)
		if err != nil {
			return divisionResult{}, err
		}
		r.mzCompressed = append(r.mzCompressed, mzBlock.compressed...)
		r.mzLengths = append(r.mzLengths, mzBlock.length)

		intBlock, err := encodeSpectrumBlock(p.Doc[div.Intensity.Start[i]:div.Intensity.End[i]], p.Descriptor.SourcePayloadCompress, p.IntensityTransform, p.IntensityParams, p.IntensityCodec)
		if err != nil {
			return divisionResult{}, err
		}
		r.intCompressed = append(r.intCompressed, intBlock.compressed...)
		r.intLengths = append(r.intLengths, intBlock.length)
	}

	return r, nil
}

type encodedBlock struct {
	compressed []byte
	length     container.BlockLengthEntry
}

// encodeSpectrumBlock decodes one spectrum's `<binary>` wire text, applies
// the numeric transform, and compresses the result as a single self
// contained block.
func encodeSpectrumBlock(wire []byte, srcCompress format.SourceCompression, t transform.Transform, params transform.Params, codec compress.Codec) (encodedBlock, error) {
	raw, err := payload.Decode(wire, srcCompress)
	if err != nil {
		return encodedBlock{}, err
	}

	transformed, err := t.Encode(raw, params)
	if err != nil {
		return encodedBlock{}, err
	}

	compressed, err := codec.Compress(transformed)
	if err != nil {
		return encodedBlock{}, err
	}

	return encodedBlock{
		compressed: compressed,
		length: container.BlockLengthEntry{
			OriginalSize:   uint64(len(transformed)),
			CompressedSize: uint64(len(compressed)),
		},
	}, nil
}

// concatSpans reads every [start,end) range of t out of doc and joins them
// into buf, reconstructing a division's non-contiguous xml byte stream (the
// binary spans it skips over belong to the m/z and intensity streams
// instead). buf is taken from the shared byte-buffer pool by the caller, who
// is responsible for returning it; the chunks sliced out of it by
// splitChunks must be compressed before the buffer is returned, since
// returning it resets its length to zero.
func concatSpans(buf *pool.ByteBuffer, doc []byte, t partition.PositionTable) []byte {
	total := 0
	for i := range t.Start {
		total += int(t.End[i] - t.Start[i])
	}
	buf.Grow(total)

	for i := range t.Start {
		buf.MustWrite(doc[t.Start[i]:t.End[i]])
	}

	return buf.Bytes()
}

// splitChunks divides raw into sequential pieces of at most blockSize bytes
// each (spec.md §4.5 "growable buffer ... when its fill exceeds the
// configured block size, it is compressed and emitted"). An empty input
// still yields one (empty) chunk, so a division with a zero-length xml
// span still contributes exactly one block-length-table entry.
func splitChunks(raw []byte, blockSize uint64) [][]byte {
	if blockSize == 0 || uint64(len(raw)) <= blockSize {
		return [][]byte{raw}
	}

	var chunks [][]byte
	for off := 0; off < len(raw); off += int(blockSize) {
		end := off + int(blockSize)
		if end > len(raw) {
			end = len(raw)
		}
		chunks = append(chunks, raw[off:end])
	}

	return chunks
}
