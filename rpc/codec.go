package metricrpc

import "metricconverter"

// Codec encodes packets and packet body values. The wire framing around
// packets is the same for every codec.
type Codec interface {
	Name() string
	MarshalPkt(pkt *Packet) ([]byte, error)
	UnmarshalPkt(b []byte) (*Packet, error)
	MarshalResults(results []metricconverter.Result) ([]byte, error)
	UnmarshalResults(b []byte) ([]metricconverter.Result, error)
	MarshalStrings(strs []string) ([]byte, error)
	UnmarshalStrings(b []byte) ([]string, error)
}
