package rpcclient

import (
	"context"
	"testing"
	"time"

	"metricconverter"
	convmsgpack "metricconverter/msgpack"
	convpb "metricconverter/pb"
	metricrpc "metricconverter/rpc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, codec metricrpc.Codec) string {
	t.Helper()
	conn, err := metricrpc.Listen("127.0.0.1:0")
	require.NoError(t, err)

	processor := metricrpc.NewServerProcessor(metricconverter.NewEngine(metricconverter.DefaultTable()), codec)
	server := metricrpc.NewServer(conn.LocalAddr().String(), processor, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, conn) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return conn.LocalAddr().String()
}

func TestClientAgainstServer(t *testing.T) {
	for _, codec := range []metricrpc.Codec{convmsgpack.Codec{}, convpb.Codec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			addr := startServer(t, codec)
			client, err := Dial(addr, codec)
			require.NoError(t, err)
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			cats, err := client.Categories(ctx)
			require.NoError(t, err)
			assert.Equal(t, metricconverter.DefaultTable().Categories(), cats)

			results, err := client.ConvertAll(ctx, "Length", "1")
			require.NoError(t, err)
			assert.Equal(t, metricconverter.ConvertAll("Length", "1"), results)

			results, err = client.ConvertAll(ctx, "Length", "abc")
			require.NoError(t, err)
			assert.Equal(t, []metricconverter.Result{{Unit: metricconverter.InvalidInput}}, results)

			units, err := client.Describe(ctx, "Time")
			require.NoError(t, err)
			assert.Equal(t, []string{"Second", "Minute", "Hour", "Day"}, units)

			_, err = client.Describe(ctx, "Volume")
			var respErr *metricrpc.ResponseError
			require.ErrorAs(t, err, &respErr)
			assert.Equal(t, metricrpc.CodeUnknownCategory, respErr.Code)
		})
	}
}

func TestClientTimeout(t *testing.T) {
	// A bound socket that never answers.
	conn, err := metricrpc.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	client, err := Dial(conn.LocalAddr().String(), convmsgpack.Codec{})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = client.Categories(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTruncatedDatagramIsDropped(t *testing.T) {
	addr := startServer(t, convmsgpack.Codec{})
	client, err := Dial(addr, convmsgpack.Codec{})
	require.NoError(t, err)
	defer client.Close()

	wrapped, err := metricrpc.EncodePacketWrapper([]byte("cut short"))
	require.NoError(t, err)
	_, err = client.conn.Write(wrapped[:len(wrapped)-3])
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	results, err := client.ConvertAll(ctx, "Length", "1")
	require.NoError(t, err)
	assert.Equal(t, metricconverter.ConvertAll("Length", "1"), results)
}
