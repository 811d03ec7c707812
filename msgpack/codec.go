package convmsgpack

import (
	"metricconverter"
	metricrpc "metricconverter/rpc"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

type Packet struct {
	UUID []byte            `msgpack:"uuid,omitempty"`
	Type int16             `msgpack:"type,omitempty"`
	Meta map[string][]byte `msgpack:"meta,omitempty"`
	Body map[string][]byte `msgpack:"body,omitempty"`
}

type Result struct {
	Unit  string `msgpack:"unit"`
	Value string `msgpack:"value"`
}

func NewPacket(pkt *metricrpc.Packet) Packet {
	return Packet{
		UUID: pkt.UUID[:],
		Type: pkt.Type,
		Meta: pkt.Meta,
		Body: pkt.Body,
	}
}

func ToRPCPacket(pkt *Packet) (*metricrpc.Packet, error) {
	pktUUID, err := uuid.FromBytes(pkt.UUID)
	if err != nil {
		return nil, err
	}
	return &metricrpc.Packet{
		UUID: pktUUID,
		Type: pkt.Type,
		Meta: pkt.Meta,
		Body: pkt.Body,
	}, nil
}

type Codec struct{}

func (Codec) Name() string {
	return "msgpack"
}

func (Codec) MarshalPkt(pkt *metricrpc.Packet) ([]byte, error) {
	p := NewPacket(pkt)
	return msgpack.Marshal(&p)
}

func (Codec) UnmarshalPkt(b []byte) (*metricrpc.Packet, error) {
	var p Packet
	if err := msgpack.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return ToRPCPacket(&p)
}

func (Codec) MarshalResults(results []metricconverter.Result) ([]byte, error) {
	rs := make([]Result, len(results))
	for i, r := range results {
		rs[i] = Result{Unit: r.Unit, Value: r.Value}
	}
	return msgpack.Marshal(rs)
}

func (Codec) UnmarshalResults(b []byte) ([]metricconverter.Result, error) {
	var rs []Result
	if err := msgpack.Unmarshal(b, &rs); err != nil {
		return nil, err
	}
	results := make([]metricconverter.Result, len(rs))
	for i, r := range rs {
		results[i] = metricconverter.Result{Unit: r.Unit, Value: r.Value}
	}
	return results, nil
}

func (Codec) MarshalStrings(strs []string) ([]byte, error) {
	return msgpack.Marshal(strs)
}

func (Codec) UnmarshalStrings(b []byte) ([]string, error) {
	var strs []string
	err := msgpack.Unmarshal(b, &strs)
	return strs, err
}
