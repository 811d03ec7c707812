// Package convpb encodes rpc packets in the protobuf wire format. The
// messages are written with protowire directly; their schema is:
//
//	message Packet {
//	  bytes uuid = 1;
//	  int32 type = 2;
//	  map<string, bytes> meta = 3;
//	  map<string, bytes> body = 4;
//	}
//	message Result { string unit = 1; string value = 2; }
//	message ResultList { repeated Result results = 1; }
//	message StringList { repeated string values = 1; }
package convpb

import (
	"fmt"
	"sort"

	"metricconverter"
	metricrpc "metricconverter/rpc"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	packetUUID protowire.Number = 1
	packetType protowire.Number = 2
	packetMeta protowire.Number = 3
	packetBody protowire.Number = 4

	mapKey   protowire.Number = 1
	mapValue protowire.Number = 2

	resultUnit  protowire.Number = 1
	resultValue protowire.Number = 2

	listItem protowire.Number = 1
)

type Codec struct{}

func (Codec) Name() string {
	return "protobuf"
}

func (Codec) MarshalPkt(pkt *metricrpc.Packet) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, packetUUID, protowire.BytesType)
	b = protowire.AppendBytes(b, pkt.UUID[:])
	if pkt.Type != 0 {
		b = protowire.AppendTag(b, packetType, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(pkt.Type)))
	}
	b = appendMap(b, packetMeta, pkt.Meta)
	b = appendMap(b, packetBody, pkt.Body)
	return b, nil
}

func appendMap(b []byte, num protowire.Number, m map[string][]byte) []byte {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var entry []byte
		entry = protowire.AppendTag(entry, mapKey, protowire.BytesType)
		entry = protowire.AppendString(entry, k)
		entry = protowire.AppendTag(entry, mapValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, m[k])
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}

// fieldFunc handles one field and returns the bytes it consumed, or a
// negative protowire error code. ok is false for fields it does not know.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (n int, ok bool)

func walk(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		n, ok := fn(num, typ, b)
		if !ok {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func (Codec) UnmarshalPkt(b []byte) (*metricrpc.Packet, error) {
	pkt := &metricrpc.Packet{}
	var rawUUID []byte
	var mapErr error
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == packetUUID && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			rawUUID = v
			return n, true
		case num == packetType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			pkt.Type = int16(int32(v))
			return n, true
		case (num == packetMeta || num == packetBody) && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, true
			}
			k, val, err := consumeMapEntry(v)
			if err != nil {
				mapErr = err
				return n, true
			}
			if num == packetMeta {
				if pkt.Meta == nil {
					pkt.Meta = map[string][]byte{}
				}
				pkt.Meta[k] = val
			} else {
				if pkt.Body == nil {
					pkt.Body = map[string][]byte{}
				}
				pkt.Body[k] = val
			}
			return n, true
		}
		return 0, false
	})
	if err != nil {
		return nil, fmt.Errorf("convpb: packet: %w", err)
	}
	if mapErr != nil {
		return nil, fmt.Errorf("convpb: packet map entry: %w", mapErr)
	}
	pkt.UUID, err = uuid.FromBytes(rawUUID)
	if err != nil {
		return nil, fmt.Errorf("convpb: packet uuid: %w", err)
	}
	return pkt, nil
}

func consumeMapEntry(b []byte) (string, []byte, error) {
	var key string
	val := []byte{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if typ != protowire.BytesType {
			return 0, false
		}
		switch num {
		case mapKey:
			v, n := protowire.ConsumeString(b)
			key = v
			return n, true
		case mapValue:
			v, n := protowire.ConsumeBytes(b)
			val = append([]byte{}, v...)
			return n, true
		}
		return 0, false
	})
	return key, val, err
}

func (Codec) MarshalResults(results []metricconverter.Result) ([]byte, error) {
	var b []byte
	for _, r := range results {
		var msg []byte
		msg = protowire.AppendTag(msg, resultUnit, protowire.BytesType)
		msg = protowire.AppendString(msg, r.Unit)
		msg = protowire.AppendTag(msg, resultValue, protowire.BytesType)
		msg = protowire.AppendString(msg, r.Value)
		b = protowire.AppendTag(b, listItem, protowire.BytesType)
		b = protowire.AppendBytes(b, msg)
	}
	return b, nil
}

func (Codec) UnmarshalResults(b []byte) ([]metricconverter.Result, error) {
	var results []metricconverter.Result
	var itemErr error
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num != listItem || typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, true
		}
		var r metricconverter.Result
		if err := walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
			if typ != protowire.BytesType {
				return 0, false
			}
			switch num {
			case resultUnit:
				s, n := protowire.ConsumeString(b)
				r.Unit = s
				return n, true
			case resultValue:
				s, n := protowire.ConsumeString(b)
				r.Value = s
				return n, true
			}
			return 0, false
		}); err != nil {
			itemErr = err
		}
		results = append(results, r)
		return n, true
	})
	if err == nil {
		err = itemErr
	}
	if err != nil {
		return nil, fmt.Errorf("convpb: results: %w", err)
	}
	return results, nil
}

func (Codec) MarshalStrings(strs []string) ([]byte, error) {
	var b []byte
	for _, s := range strs {
		b = protowire.AppendTag(b, listItem, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	return b, nil
}

func (Codec) UnmarshalStrings(b []byte) ([]string, error) {
	var strs []string
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num != listItem || typ != protowire.BytesType {
			return 0, false
		}
		s, n := protowire.ConsumeString(b)
		if n >= 0 {
			strs = append(strs, s)
		}
		return n, true
	})
	if err != nil {
		return nil, fmt.Errorf("convpb: strings: %w", err)
	}
	return strs, nil
}
