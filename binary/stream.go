// Package binary implements the append-only little-endian byte stream and
// Bitcoin-style compact-size varint writer used to build transaction
// preimages. It mirrors multy_transaction/internal/bitcoin_transaction.cpp's
// BitcoinDataStream/BitcoinHashStream pair: a plain accumulator and a
// streaming SHA-256d accumulator that sees the exact same writes.
package binary

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Stream is an append-only little-endian byte buffer.
type Stream struct {
	buf []byte
}

// NewStream returns an empty Stream.
func NewStream() *Stream { return &Stream{} }

// Bytes returns the accumulated content.
func (s *Stream) Bytes() []byte { return s.buf }

// Len returns the number of bytes written so far.
func (s *Stream) Len() int { return len(s.buf) }

// WriteBytes appends raw bytes.
func (s *Stream) WriteBytes(data []byte) *Stream {
	s.buf = append(s.buf, data...)
	return s
}

// WriteUint8 appends a single byte.
func (s *Stream) WriteUint8(v uint8) *Stream {
	s.buf = append(s.buf, v)
	return s
}

// WriteUint16LE appends a little-endian uint16.
func (s *Stream) WriteUint16LE(v uint16) *Stream {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return s.WriteBytes(b[:])
}

// WriteUint32LE appends a little-endian uint32.
func (s *Stream) WriteUint32LE(v uint32) *Stream {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return s.WriteBytes(b[:])
}

// WriteUint64LE appends a little-endian uint64.
func (s *Stream) WriteUint64LE(v uint64) *Stream {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return s.WriteBytes(b[:])
}

// WriteReversed appends data in reverse byte order, used for Bitcoin's
// big-endian-displayed, little-endian-on-wire transaction hashes.
func (s *Stream) WriteReversed(data []byte) *Stream {
	for i := len(data) - 1; i >= 0; i-- {
		s.WriteUint8(data[i])
	}
	return s
}

// WriteCompactSize writes a Bitcoin compact-size (varint) length prefix:
// values under 253 are a single byte; up to 0xFFFF use 0xFD + 2 LE bytes;
// up to 0xFFFFFFFF use 0xFE + 4 LE bytes; otherwise 0xFF + 8 LE bytes.
func (s *Stream) WriteCompactSize(size uint64) *Stream {
	switch {
	case size < 253:
		s.WriteUint8(uint8(size))
	case size <= 0xFFFF:
		s.WriteUint8(0xFD)
		s.WriteUint16LE(uint16(size))
	case size <= 0xFFFFFFFF:
		s.WriteUint8(0xFE)
		s.WriteUint32LE(uint32(size))
	default:
		s.WriteUint8(0xFF)
		s.WriteUint64LE(size)
	}
	return s
}

// HashStream feeds every write into a SHA-256d (double SHA-256)
// accumulator in addition to the plain buffer, used for Bitcoin sighash
// preimages where only the final digest is needed.
type HashStream struct {
	Stream
}

// NewHashStream returns an empty HashStream.
func NewHashStream() *HashStream { return &HashStream{} }

// Sum256d returns the double-SHA256 digest of everything written so far.
func (h *HashStream) Sum256d() [32]byte {
	return chainhash.DoubleHashH(h.buf)
}
