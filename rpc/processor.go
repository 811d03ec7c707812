package metricrpc

import (
	"slices"

	"metricconverter"
)

const (
	FuncCategories = "Categories"
	FuncConvertAll = "ConvertAll"
	FuncDescribe   = "Describe"
)

var serverFuncs = []string{
	FuncCategories,
	FuncConvertAll,
	FuncDescribe,
}

// ServerFuncs lists the functions the server dispatches.
func ServerFuncs() []string {
	return slices.Clone(serverFuncs)
}

type ServerProcessor struct {
	Engine *metricconverter.Engine
	Codec  Codec
}

func NewServerProcessor(engine *metricconverter.Engine, codec Codec) *ServerProcessor {
	return &ServerProcessor{
		Engine: engine,
		Codec:  codec,
	}
}

// ProcessPkt answers one request packet. The returned error is only for
// logging; the response packet already carries the failure code.
func (p *ServerProcessor) ProcessPkt(pkt *Packet) (*Packet, string, int32, error) {
	// layer 0, check func
	funcBytes, ok := pkt.Body["function"]
	if !ok {
		return CreateRespPkt(pkt.UUID, CodeNoFunc, nil, ErrReqHasNoFunc, ErrReqHasNoFunc.Error())
	}
	funcStr := string(funcBytes)
	if !slices.Contains(serverFuncs, funcStr) {
		return CreateRespPkt(pkt.UUID, CodeNoSuchFunc, nil, ErrNoSuchFunc, ErrNoSuchFunc.Error()+": "+funcStr)
	}

	// layer 1, check args
	switch funcStr {
	case FuncConvertAll:
		_, hasCategory := pkt.Body["category"]
		_, hasInput := pkt.Body["input"]
		if !hasCategory || !hasInput {
			return CreateRespPkt(pkt.UUID, CodeNoArg, nil, ErrReqHasNoArg, ErrReqHasNoArg.Error())
		}
	case FuncDescribe:
		if _, ok := pkt.Body["category"]; !ok {
			return CreateRespPkt(pkt.UUID, CodeNoArg, nil, ErrReqHasNoArg, ErrReqHasNoArg.Error())
		}
	}

	payload := map[string][]byte{}

	// layer last
	switch funcStr {
	case FuncCategories:
		b, err := p.Codec.MarshalStrings(p.Engine.Categories())
		if err != nil {
			return CreateRespPkt(pkt.UUID, CodeMarshal, nil, err, err.Error())
		}
		payload["categories"] = b
	case FuncConvertAll:
		results := p.Engine.ConvertAll(string(pkt.Body["category"]), string(pkt.Body["input"]))
		b, err := p.Codec.MarshalResults(results)
		if err != nil {
			return CreateRespPkt(pkt.UUID, CodeMarshal, nil, err, err.Error())
		}
		payload["results"] = b
	case FuncDescribe:
		name := string(pkt.Body["category"])
		c, ok := p.Engine.Table().Category(name)
		if !ok {
			return CreateRespPkt(pkt.UUID, CodeUnknownCategory, nil, ErrUnknownCategory, ErrUnknownCategory.Error()+": "+name)
		}
		units := append([]string{c.BaseUnit}, c.TargetUnits()...)
		b, err := p.Codec.MarshalStrings(units)
		if err != nil {
			return CreateRespPkt(pkt.UUID, CodeMarshal, nil, err, err.Error())
		}
		payload["units"] = b
	}

	return CreateRespPkt(pkt.UUID, CodeOK, payload, nil, "ok")
}

// HandleWrapper decodes one framed request, processes it and returns the
// framed response. A request the server rejects still yields a response;
// err then only describes the rejection.
func (p *ServerProcessor) HandleWrapper(w *PacketWrapper) ([]byte, *Packet, error) {
	req, err := p.Codec.UnmarshalPkt(w.PacketBytes)
	if err != nil {
		return nil, nil, err
	}
	resp, _, _, procErr := p.ProcessPkt(req)
	respBytes, err := p.Codec.MarshalPkt(resp)
	if err != nil {
		return nil, req, err
	}
	out, err := EncodePacketWrapper(respBytes)
	if err != nil {
		return nil, req, err
	}
	return out, req, procErr
}
