package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"metricconverter"
	"metricconverter/internal/logging"
	metricrpc "metricconverter/rpc"
	"metricconverter/rpcclient"
)

var (
	serveAddr    string
	serveCodec   string
	queryTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer conversion requests over UDP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var queryCmd = &cobra.Command{
	Use:   "query <category> <value>",
	Short: "Ask a running server to convert a value",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

func init() {
	for _, c := range []*cobra.Command{serveCmd, queryCmd} {
		c.Flags().StringVar(&serveAddr, "addr", "", "UDP address (default from config)")
		c.Flags().StringVar(&serveCodec, "codec", "", "msgpack or protobuf (default from config)")
	}
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", rpcclient.DefaultTimeout, "time to wait for the answer")
}

func serverSettings() (string, metricrpc.Codec, error) {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	name := cfg.Server.Codec
	if serveCodec != "" {
		name = serveCodec
	}
	codec, err := codecFor(name)
	return addr, codec, err
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, codec, err := serverSettings()
	if err != nil {
		return err
	}
	table, err := activeTable()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	processor := metricrpc.NewServerProcessor(metricconverter.NewEngine(table), codec)
	server := metricrpc.NewServer(addr, processor, logging.Logger)
	return server.ListenAndServe(ctx)
}

func runQuery(cmd *cobra.Command, args []string) error {
	addr, codec, err := serverSettings()
	if err != nil {
		return err
	}
	client, err := rpcclient.Dial(addr, codec)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
	defer cancel()
	results, err := client.ConvertAll(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("query %s: %w", addr, err)
	}
	printResults(cmd, results)
	return nil
}
