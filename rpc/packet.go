package metricrpc

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TypeReq  int16 = 1
	TypeResp int16 = 2
)

var (
	ErrChecksumMismatch = errors.New("packet checksum mismatch")
	ErrLengthMismatch   = errors.New("packet length mismatch")
	ErrTruncated        = errors.New("truncated packet")
)

type Packet struct {
	UUID uuid.UUID
	Type int16
	Meta map[string][]byte
	Body map[string][]byte
}

// PacketWrapper frames one codec-encoded packet on the wire.
type PacketWrapper struct {
	Length      uint32 `msgpack:"l"`
	Checksum    uint32 `msgpack:"c"`
	PacketBytes []byte `msgpack:"p"`
}

func EncodePacketWrapper(pktBytes []byte) ([]byte, error) {
	w := PacketWrapper{
		Length:      uint32(len(pktBytes)),
		Checksum:    crc32.ChecksumIEEE(pktBytes),
		PacketBytes: pktBytes,
	}
	return msgpack.Marshal(&w)
}

func (w *PacketWrapper) verify() error {
	if int(w.Length) != len(w.PacketBytes) {
		return fmt.Errorf("%w: header %d, got %d", ErrLengthMismatch, w.Length, len(w.PacketBytes))
	}
	if crc32.ChecksumIEEE(w.PacketBytes) != w.Checksum {
		return ErrChecksumMismatch
	}
	return nil
}

// PacketBuffer reassembles wrappers from a byte stream that may split or
// join them arbitrarily.
type PacketBuffer struct {
	buf bytes.Buffer
}

// Feed appends data and returns every complete wrapper. Incomplete trailing
// data stays buffered for the next call. Wrappers failing verification are
// dropped; the first such failure is returned alongside the good ones.
func (pb *PacketBuffer) Feed(data []byte) ([]*PacketWrapper, error) {
	pb.buf.Write(data)

	var results []*PacketWrapper
	var firstErr error
	for pb.buf.Len() > 0 {
		r := bytes.NewReader(pb.buf.Bytes())
		dec := msgpack.NewDecoder(r)
		w := new(PacketWrapper)
		if err := dec.Decode(w); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				// not enough data yet
				break
			}
			pb.buf.Reset()
			if firstErr == nil {
				firstErr = err
			}
			break
		}
		pb.buf.Next(pb.buf.Len() - r.Len())

		if err := w.verify(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, w)
	}
	return results, firstErr
}

// DecodeDatagram decodes the wrappers carried by one datagram. A datagram
// never continues in the next one, so a trailing partial wrapper is
// discarded and reported as ErrTruncated.
func DecodeDatagram(data []byte) ([]*PacketWrapper, error) {
	var pb PacketBuffer
	wrappers, err := pb.Feed(data)
	if err == nil && pb.Len() > 0 {
		err = fmt.Errorf("%w: %d trailing bytes", ErrTruncated, pb.Len())
	}
	return wrappers, err
}

func (pb *PacketBuffer) Len() int {
	return pb.buf.Len()
}
