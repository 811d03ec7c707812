package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"metricconverter"
	convpb "metricconverter/pb"
	metricrpc "metricconverter/rpc"
	"metricconverter/rpcclient"
)

func main() {
	codec := convpb.Codec{}

	conn, err := metricrpc.Listen("127.0.0.1:0")
	if err != nil {
		log.Fatal(err)
	}
	processor := metricrpc.NewServerProcessor(metricconverter.NewEngine(metricconverter.DefaultTable()), codec)
	server := metricrpc.NewServer(conn.LocalAddr().String(), processor, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := server.Serve(ctx, conn); err != nil {
			log.Println(err)
		}
	}()

	client, err := rpcclient.Dial(conn.LocalAddr().String(), codec)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	reqCtx, reqCancel := context.WithTimeout(ctx, 2*time.Second)
	defer reqCancel()

	categories, err := client.Categories(reqCtx)
	if err != nil {
		log.Fatal(err)
	}
	for _, category := range categories {
		results, err := client.ConvertAll(reqCtx, category, "1")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(category + ":")
		for _, r := range results {
			fmt.Println("  " + r.String())
		}
	}
}
