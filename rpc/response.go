package metricrpc

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	CodeOK              int32 = 0
	CodeNoFunc          int32 = -201
	CodeNoSuchFunc      int32 = -202
	CodeNoArg           int32 = -204
	CodeUnknownCategory int32 = -205
	CodeMarshal         int32 = -210
)

var (
	ErrReqHasNoFunc     = errors.New("request has no function")
	ErrNoSuchFunc       = errors.New("no such function")
	ErrReqHasNoArg      = errors.New("request is missing an argument")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrPacketIncomplete = errors.New("packet incomplete")
)

// ResponseError is a negative response code reported by the server.
type ResponseError struct {
	Code    int32
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func CreateRespPkt(reqUUID uuid.UUID, code int32, payload map[string][]byte, err error, msg string) (*Packet, string, int32, error) {
	body := make(map[string][]byte, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	codeBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(codeBytes, uint32(code))
	body["code"] = codeBytes
	body["message"] = []byte(msg)
	return &Packet{
		UUID: reqUUID,
		Type: TypeResp,
		Body: body,
	}, msg, code, err
}

// ResponseCode extracts the code and message a server put in pkt.
func ResponseCode(pkt *Packet) (int32, string, error) {
	codeBytes, ok := pkt.Body["code"]
	if !ok || len(codeBytes) != 4 {
		return 0, "", ErrPacketIncomplete
	}
	return int32(binary.LittleEndian.Uint32(codeBytes)), string(pkt.Body["message"]), nil
}
