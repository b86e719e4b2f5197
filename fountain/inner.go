/*
NAME
  inner.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package fountain

// innerEncoder and innerDecoder are the interface a real rateless
// erasure code (LT codes, Raptor codes) would satisfy. Spec §1 lists
// the inner codec as an external collaborator specified only by its
// contract: an unbounded stream of chunks out of the encoder, and
// recovery once the decoder has received "enough" of them. Since no
// such library exists anywhere in the retrieval pack, cycleCoder below
// is a minimal concrete stand-in satisfying that same contract: it
// splits the payload into fixed-size chunks and cycles chunk_id through
// them forever, so the decoder recovers as soon as it has seen every
// distinct chunk_id at least once (mod the chunk count) — no replay of
// a lost chunk is needed beyond one more lap of the cycle.
type innerEncoder interface {
	// chunk returns the payload for sequence number id, which the
	// caller is free to call with ever-increasing ids.
	chunk(id int) []byte
}

type innerDecoder interface {
	// feed delivers one (chunkID, payload) pair. It returns true once
	// every chunk needed to reconstruct the original has been seen.
	feed(chunkID int, payload []byte) bool
	// bytes returns the reconstructed payload once feed has returned
	// true; it is nil before that.
	bytes() []byte
}

// cycleCoder is the chunk-cycling inner codec described above.
type cycleCoder struct {
	data      []byte
	chunkSize int
}

func newCycleEncoder(data []byte, chunkSize int) *cycleCoder {
	return &cycleCoder{data: data, chunkSize: chunkSize}
}

func (c *cycleCoder) numChunks() int {
	n := (len(c.data) + c.chunkSize - 1) / c.chunkSize
	if n == 0 {
		n = 1
	}
	return n
}

// chunk returns the bytes for logical chunk id, wrapping around
// numChunks so the encoder can be asked for an unbounded sequence.
func (c *cycleCoder) chunk(id int) []byte {
	n := c.numChunks()
	idx := id % n
	start := idx * c.chunkSize
	end := start + c.chunkSize
	if end > len(c.data) {
		end = len(c.data)
	}
	if start >= len(c.data) {
		return nil
	}
	buf := make([]byte, c.chunkSize)
	copy(buf, c.data[start:end])
	return buf
}

// cycleDecoder reconstructs the payload by filling in a slot per
// logical chunk index (chunkID mod numChunks) and signalling done once
// every slot has been written at least once.
type cycleDecoder struct {
	totalSize int
	chunkSize int
	numChunks int
	slots     [][]byte
	filled    int
	have      []bool
}

func newCycleDecoder(totalSize, chunkSize int) *cycleDecoder {
	n := (totalSize + chunkSize - 1) / chunkSize
	if n == 0 {
		n = 1
	}
	return &cycleDecoder{
		totalSize: totalSize,
		chunkSize: chunkSize,
		numChunks: n,
		slots:     make([][]byte, n),
		have:      make([]bool, n),
	}
}

func (c *cycleDecoder) feed(chunkID int, payload []byte) bool {
	idx := chunkID % c.numChunks
	if !c.have[idx] {
		c.have[idx] = true
		c.slots[idx] = append([]byte(nil), payload...)
		c.filled++
	}
	return c.filled >= c.numChunks
}

func (c *cycleDecoder) bytes() []byte {
	if c.filled < c.numChunks {
		return nil
	}
	out := make([]byte, 0, c.numChunks*c.chunkSize)
	for _, s := range c.slots {
		out = append(out, s...)
	}
	if len(out) > c.totalSize {
		out = out[:c.totalSize]
	}
	return out
}
