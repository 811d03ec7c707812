package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"metricconverter"
	metricrpc "metricconverter/rpc"

	"github.com/google/uuid"
)

const DefaultTimeout = 5 * time.Second

// Client talks to a metricrpc server over UDP. Calls are serialised; one
// request is in flight at a time.
type Client struct {
	conn  *net.UDPConn
	codec metricrpc.Codec
	mutex sync.Mutex
}

func Dial(addr string, codec metricrpc.Codec) (*Client, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: dial %s: %w", addr, err)
	}
	return &Client{conn: conn, codec: codec}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	resp, err := c.call(ctx, metricrpc.FuncCategories, nil)
	if err != nil {
		return nil, err
	}
	return c.codec.UnmarshalStrings(resp.Body["categories"])
}

func (c *Client) ConvertAll(ctx context.Context, category, input string) ([]metricconverter.Result, error) {
	resp, err := c.call(ctx, metricrpc.FuncConvertAll, map[string][]byte{
		"category": []byte(category),
		"input":    []byte(input),
	})
	if err != nil {
		return nil, err
	}
	return c.codec.UnmarshalResults(resp.Body["results"])
}

// Describe returns the base unit of category followed by its target units.
func (c *Client) Describe(ctx context.Context, category string) ([]string, error) {
	resp, err := c.call(ctx, metricrpc.FuncDescribe, map[string][]byte{
		"category": []byte(category),
	})
	if err != nil {
		return nil, err
	}
	return c.codec.UnmarshalStrings(resp.Body["units"])
}

func (c *Client) call(ctx context.Context, funcName string, args map[string][]byte) (*metricrpc.Packet, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	pktUUID, err := uuid.NewV6()
	if err != nil {
		return nil, err
	}
	body := map[string][]byte{"function": []byte(funcName)}
	for k, v := range args {
		body[k] = v
	}
	pktBytes, err := c.codec.MarshalPkt(&metricrpc.Packet{
		UUID: pktUUID,
		Type: metricrpc.TypeReq,
		Body: body,
	})
	if err != nil {
		return nil, fmt.Errorf("rpcclient: marshal request: %w", err)
	}
	wrapped, err := metricrpc.EncodePacketWrapper(pktBytes)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: wrap request: %w", err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(DefaultTimeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	if _, err := c.conn.Write(wrapped); err != nil {
		return nil, fmt.Errorf("rpcclient: send %s: %w", funcName, err)
	}
	return c.waitResponse(ctx, pktUUID)
}

func (c *Client) waitResponse(ctx context.Context, pktUUID uuid.UUID) (*metricrpc.Packet, error) {
	// unblock Read as soon as ctx is done
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	data := make([]byte, 64*1024)
	for {
		n, err := c.conn.Read(data)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				if _, ok := ctx.Deadline(); ok {
					<-ctx.Done()
				}
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
			}
			return nil, fmt.Errorf("rpcclient: read: %w", err)
		}
		wrappers, _ := metricrpc.DecodeDatagram(data[:n])
		for _, w := range wrappers {
			resp, err := c.codec.UnmarshalPkt(w.PacketBytes)
			if err != nil || resp.UUID != pktUUID {
				// stale or foreign response
				continue
			}
			code, msg, err := metricrpc.ResponseCode(resp)
			if err != nil {
				return nil, err
			}
			if code < 0 {
				return nil, &metricrpc.ResponseError{Code: code, Message: msg}
			}
			return resp, nil
		}
	}
}
