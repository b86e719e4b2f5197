/*
NAME
  pipeline.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package pipeline

import (
	"bytes"
	"image"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/cimbar/bitstream"
	"github.com/ausocean/cimbar/cell"
	"github.com/ausocean/cimbar/config"
	"github.com/ausocean/cimbar/deskew"
	"github.com/ausocean/cimbar/fountain"
	"github.com/ausocean/cimbar/imaging"
	"github.com/ausocean/cimbar/rs"
	"github.com/ausocean/cimbar/scan"
	"github.com/ausocean/cimbar/tile"
	"github.com/ausocean/utils/logging"
)

// darkBrightnessCutoff is the luminance floor DecodeColor's dark-mode
// mean-color sample excludes, keeping unlit background pixels from
// dragging the ink color's average toward black (spec §4.F).
const darkBrightnessCutoff = 50

// fountainEncodeID is used for every run; cimbar never needs to tell
// apart independent re-encodings of the same payload within one Encode
// call (spec §3's "distinguishes independent re-encodings" applies
// across separate invocations, not within one).
const fountainEncodeID = 0

// EncodeOptions configures a single Encode call (spec §4.I / §6).
type EncodeOptions struct {
	// Compress enables the zstd compression stage.
	Compress bool

	// Fountain enables rateless fountain coding. When set, Frames (or,
	// if zero, NumChunks()+2) distinct frames are produced, satisfying
	// spec §8 testable property 2.
	Fountain bool

	// Frames overrides the fountain frame count. Ignored when Fountain
	// is false, where the frame count is instead derived from the
	// natural length of the (optionally compressed) payload.
	Frames int

	// Logger receives diagnostic messages; nil disables logging.
	Logger logging.Logger
}

// DecodeOptions configures a single Decode call (spec §4.I / §6). It
// must describe the same Compress/Fountain choices Encode was called
// with — cimbar treats the profile and codec options as fixed for a
// run (spec §4.A).
type DecodeOptions struct {
	Compress bool
	Fountain bool

	// Deskew selects how aggressively each source image is corrected
	// before tile decode.
	Deskew deskew.Level

	// Preprocess selects the unsharp-mask pass: -1 auto (applied only
	// when the source was smaller than the canonical frame), 0 off, 1
	// forced on (spec §4.I).
	Preprocess int

	// ColorCorrect selects the tile decoder's colour-correction mode,
	// overriding the profile's default so a CLI run can pick
	// --color-correct independently of the named profile.
	ColorCorrect config.ColorCorrection

	// RSFailure controls what an uncorrectable RS block decodes to.
	// Defaults to rs.ZeroBlock when nil.
	RSFailure rs.FailurePolicy

	Logger logging.Logger
}

// FrameStats reports the per-frame diagnostics of a Decode call.
type FrameStats struct {
	Index                     int
	SourceWidth, SourceHeight int
	Alignment                 scan.Alignment
}

// Report summarizes a Decode call's outcome (spec §7: most failure
// categories are non-fatal and surfaced as typed results, not errors).
type Report struct {
	Frames []FrameStats

	// RSErrors is the total corrected byte-error count across every RS
	// block decoded.
	RSErrors int

	// RSDropped is the number of RS blocks that were uncorrectable and
	// replaced by the configured FailurePolicy.
	RSDropped int

	// FountainComplete reports whether the fountain decoder finished
	// (always true when Fountain was disabled, since there is nothing
	// to accumulate). False is not an error (spec §7 kind 4) — it means
	// more frames are needed.
	FountainComplete bool
}

func logInfo(log logging.Logger, msg string, args ...interface{}) {
	if log != nil {
		log.Info(msg, args...)
	}
}

func logErr(log logging.Logger, msg string, err error) {
	if log != nil {
		log.Error(msg, "error", err.Error())
	}
}

// Encode reads r's entire contents and paints them across one or more
// canonical cimbar frames (spec §4.I Encode). Data flows bytes →
// compress (optional) → fountain-encode (optional) → RS-encode →
// interleaved placement → tile painter → image, per spec §2.
func Encode(r io.Reader, p config.Profile, opts EncodeOptions) ([]image.Image, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "pipeline: invalid profile")
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: reading input")
	}

	compressor := Compressor(NoCompress{})
	if opts.Compress {
		compressor = NewCompressor()
	}
	payload, err = compressor.Compress(payload)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: compressing payload")
	}
	logInfo(opts.Logger, "pipeline: payload ready", "bytes", len(payload), "compress", opts.Compress, "fountain", opts.Fountain)

	msgLen := p.ECCBlockSize - p.ECC
	var source io.Reader
	var fe *fountain.Encoder
	if opts.Fountain {
		chunkSize := msgLen - fountain.HeaderSize
		if chunkSize <= 0 {
			return nil, errors.Errorf("pipeline: ecc block size %d too small for a fountain chunk", p.ECCBlockSize)
		}
		fe, err = fountain.NewEncoder(bytes.NewReader(payload), chunkSize, fountainEncodeID)
		if err != nil {
			return nil, errors.Wrap(err, "pipeline: building fountain encoder")
		}
		source = fountainReader{fe}
	} else {
		source = bytes.NewReader(payload)
	}

	rsEnc := rs.NewEncoder(source, p.ECCBlockSize, p.ECC)

	frames := opts.Frames
	var blocks [][]byte
	if opts.Fountain {
		if frames <= 0 {
			frames = fe.NumChunks() + 2
		}
		blocks, err = collectBlocks(rsEnc, frames*p.InterleaveBlocks)
	} else {
		blocks, err = collectBlocks(rsEnc, 0)
		frames = (len(blocks) + p.InterleaveBlocks - 1) / p.InterleaveBlocks
		if frames == 0 {
			frames = 1
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: RS encoding")
	}
	logInfo(opts.Logger, "pipeline: RS encoded", "blocks", len(blocks), "frames", frames)

	positions := cell.CellPositions(p.CellSpacingX, p.CellSpacingY, p.CellDimX, p.CellDimY, p.CellsOffset, p.MarkerSizeX, p.MarkerSizeY)
	capacity := len(positions.List)
	order := bitstream.Interleave(capacity, p.InterleaveBlocks, p.InterleavePartitions)

	palette := tile.NewPalette(p.Dark, p.NumColors())
	bank := tile.LoadBank(p.BitsPerSymbol, nil)
	translator := tile.NewTranslator(bank, palette, p.CellSize)
	template := paintTemplate(p, palette, positions)
	ink := anchorInk(p.Dark)

	images := make([]image.Image, 0, frames)
	for f := 0; f < frames; f++ {
		frameBlocks := make([]byte, 0, p.InterleaveBlocks*p.ECCBlockSize)
		for b := 0; b < p.InterleaveBlocks; b++ {
			idx := f*p.InterleaveBlocks + b
			if idx < len(blocks) {
				block := blocks[idx]
				frameBlocks = append(frameBlocks, block...)
				if len(block) < p.ECCBlockSize {
					frameBlocks = append(frameBlocks, make([]byte, p.ECCBlockSize-len(block))...)
				}
			} else {
				frameBlocks = append(frameBlocks, make([]byte, p.ECCBlockSize)...)
			}
		}

		values := make([]uint32, capacity)
		reader := bitstream.NewReader(bytes.NewReader(frameBlocks), p.BitsPerOp())
		for i := range values {
			values[i] = reader.Read(0)
		}

		frameImg := cloneRGBA(template)
		for k := 0; k < capacity; k++ {
			translator.Encode(frameImg, toImagePoint(positions.List[k]), int(values[order[k]]))
		}
		paintVerticalGuideBars(frameImg, p, ink)
		images = append(images, frameImg)
	}

	return images, nil
}

// Decode reconstructs the payload encoded across images (spec §4.I
// Decode). Data flows image → deskew → preprocess → tile reader
// (flood-fill) → de-interleave → RS-decode → fountain-decode →
// decompress → bytes, per spec §2.
func Decode(images []image.Image, p config.Profile, opts DecodeOptions) ([]byte, Report, error) {
	var report Report
	if err := p.Validate(); err != nil {
		return nil, report, errors.Wrap(err, "pipeline: invalid profile")
	}

	positions := cell.CellPositions(p.CellSpacingX, p.CellSpacingY, p.CellDimX, p.CellDimY, p.CellsOffset, p.MarkerSizeX, p.MarkerSizeY)
	capacity := len(positions.List)
	order := bitstream.Interleave(capacity, p.InterleaveBlocks, p.InterleavePartitions)

	palette := tile.NewPalette(p.Dark, p.NumColors())
	bank := tile.LoadBank(p.BitsPerSymbol, nil)
	translator := tile.NewTranslator(bank, palette, p.CellSize)
	ops := imaging.New()
	anchorSize := anchorPixelSize(p)

	var rsInput bytes.Buffer
	for i, img := range images {
		res, err := deskew.Deskew(img, p.Dark, p.TotalSize, anchorSize, opts.Deskew)
		if err != nil {
			logErr(opts.Logger, "pipeline: deskew failed, skipping frame", err)
			continue
		}
		report.Frames = append(report.Frames, FrameStats{Index: i, SourceWidth: res.SourceWidth, SourceHeight: res.SourceHeight, Alignment: res.Alignment})

		decoded := res.Image
		if shouldSharpen(opts.Preprocess, res.SourceWidth, res.SourceHeight, p.TotalSize) {
			decoded = ops.UnsharpMask(decoded)
		}

		correction := tile.Identity
		if p.BitsPerColor > 0 {
			correction = resolveColorCorrection(opts.ColorCorrect, decoded, ops, p)
		}

		recovered := decodeFrame(translator, decoded, &positions, order, correction, p.BitsPerColor > 0)
		frameBytes, err := packValues(recovered, p.BitsPerOp())
		if err != nil {
			logErr(opts.Logger, "pipeline: packing decoded frame", err)
			continue
		}
		// Encode fills only the first InterleaveBlocks RS blocks of each
		// frame; the rest of the packed frame is zero padding.
		if perFrame := p.InterleaveBlocks * p.ECCBlockSize; len(frameBytes) > perFrame {
			frameBytes = frameBytes[:perFrame]
		}
		rsInput.Write(frameBytes)
	}

	var sink io.Writer
	var fd *fountain.Decoder
	msgLen := p.ECCBlockSize - p.ECC
	if opts.Fountain {
		chunkSize := msgLen - fountain.HeaderSize
		fd = fountain.NewDecoder(chunkSize)
		sink = fountainSink{fd}
	} else {
		sink = &bytes.Buffer{}
	}

	policy := opts.RSFailure
	if policy == nil {
		policy = rs.ZeroBlock
	}
	rsDec := rs.NewDecoder(bytes.NewReader(rsInput.Bytes()), sink, p.ECCBlockSize, p.ECC, policy)
	if err := rsDec.Run(); err != nil {
		return nil, report, errors.Wrap(err, "pipeline: RS decoding")
	}
	report.RSErrors = rsDec.Errors
	report.RSDropped = rsDec.Dropped

	var out []byte
	if opts.Fountain {
		report.FountainComplete = fd.Done()
		if !fd.Done() {
			return nil, report, nil
		}
		out = fd.Bytes()
	} else {
		report.FountainComplete = true
		out = sink.(*bytes.Buffer).Bytes()
	}

	compressor := Compressor(NoCompress{})
	if opts.Compress {
		compressor = NewCompressor()
	}
	out, err := compressor.Decompress(out)
	if err != nil {
		return nil, report, errors.Wrap(err, "pipeline: decompressing payload")
	}
	return out, report, nil
}

// decodeFrame runs the flood-fill decode order over every cell
// position in img, returning the recovered tile values indexed by
// original stream position (the inverse of the interleave permutation
// used at encode time), per spec §4.B/§4.C/§4.I.
func decodeFrame(t *tile.Translator, img image.Image, positions *cell.Positions, order []int, correction tile.ColorCorrection, hasColor bool) []uint32 {
	capacity := len(positions.List)
	byPosition := make([]uint32, capacity)

	it := cell.NewFloodDecodeOrder(positions, cell.DefaultDriftLimit)
	for {
		el, ok := it.Next()
		if !ok {
			break
		}
		pt := toImagePoint(el.Pos)
		symbolBits, dist, dx, dy := t.DecodeSymbol(img, pt, el.Drift.X, el.Drift.Y)
		it.Update(dx, dy, dist)

		v := uint32(symbolBits)
		if hasColor {
			v |= uint32(t.DecodeColor(img, pt, correction, darkBrightnessCutoff))
		}
		byPosition[el.Index] = v
	}

	recovered := make([]uint32, capacity)
	for k, orig := range order {
		recovered[orig] = byPosition[k]
	}
	return recovered
}

// packValues writes values sequentially through a bitstream.Writer,
// returning the packed, tail-padded byte stream (spec §4.C bit_file).
func packValues(values []uint32, bitsPerOp int) ([]byte, error) {
	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf, bitsPerOp)
	for _, v := range values {
		if err := w.Write(v); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// shouldSharpen implements spec §4.I's preprocess selection: forced on
// (1), forced off (0), or auto (-1: only when the captured source was
// smaller than the canonical frame, i.e. upscaled and likely soft).
func shouldSharpen(mode, sourceW, sourceH, totalSize int) bool {
	switch mode {
	case 1:
		return true
	case 0:
		return false
	default:
		return sourceW < totalSize || sourceH < totalSize
	}
}

// collectBlocks draws RS-encoded blocks from enc. limit <= 0 means read
// until io.EOF (the natural, non-fountain termination); limit > 0 reads
// exactly that many blocks, which is required for fountain mode since
// its source never naturally EOFs.
func collectBlocks(enc *rs.Encoder, limit int) ([][]byte, error) {
	var blocks [][]byte
	for limit <= 0 || len(blocks) < limit {
		b, err := enc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "pipeline: RS encoding block")
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func toImagePoint(p cell.Point) image.Point {
	return image.Pt(p.X, p.Y)
}

// fountainReader adapts fountain.Encoder's unbounded Next() into an
// io.Reader so it can sit upstream of rs.NewEncoder.
type fountainReader struct {
	enc *fountain.Encoder
}

func (f fountainReader) Read(p []byte) (int, error) {
	chunk := f.enc.Next()
	n := copy(p, chunk)
	return n, nil
}

// fountainSink adapts fountain.Decoder.Write into an io.Writer so it
// can sit downstream of rs.NewDecoder, one RS message per Write call.
type fountainSink struct {
	dec *fountain.Decoder
}

func (s fountainSink) Write(p []byte) (int, error) {
	if err := s.dec.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
