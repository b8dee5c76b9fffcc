// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// mgmtrpc-server serves an in-memory management backend over websockets.
//
//	mgmtrpc-server -listen 127.0.0.1:9875 -config server.yaml
//
// The top-level keys of the YAML file are the server attributes, for
// example:
//
//	server.connection.timeout: 5m
//	password.file: /etc/mgmtrpc/passwords.yaml
//	directory.name: runtime
//	directory.properties:
//	  addr: localhost:6379
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/backend/memory"
	"go.uber.org/mgmtrpc/server"
	"go.uber.org/mgmtrpc/transport/websocket"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

var (
	flagSet    = flag.NewFlagSet("mgmtrpc-server", flag.ExitOnError)
	flagConfig = flagSet.String("config", "", "YAML file holding the server attributes")
	flagListen = flagSet.String("listen", "127.0.0.1:9875", "address to accept connections on")
)

var _runtimeName = mgmt.MustParseName("go:type=Runtime")

func main() {
	if err := do(); err != nil {
		log.Fatal(err)
	}
}

func do() error {
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}
	attrs, err := loadAttributes(*flagConfig)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	backend := memory.New(memory.Domain("go"), memory.Logger(logger))
	if _, err := backend.Register(_runtimeName, newRuntimeResource()); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", *flagListen)
	if err != nil {
		return err
	}
	trans := websocket.NewTransport(websocket.Logger(logger))
	srv := server.New(backend,
		server.Attributes(attrs),
		server.Inbound(trans.NewInbound(listener)),
		server.Logger(logger))
	if err := srv.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	printAddress(os.Stdout, srv.Address())
	<-ctx.Done()

	return srv.Stop()
}

func printAddress(w io.Writer, address string) {
	fmt.Fprintf(w, "serving %s\n", address)
}

// loadAttributes reads the attribute map from the YAML file at path. An
// empty path yields no attributes.
func loadAttributes(path string) (map[string]interface{}, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var attrs map[string]interface{}
	if err := yaml.Unmarshal(b, &attrs); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %v", path, err)
	}
	return attrs, nil
}

// newRuntimeResource exposes statistics of the Go runtime.
func newRuntimeResource() *memory.Object {
	memStat := func(f func(*runtime.MemStats) uint64) func() interface{} {
		return func() interface{} {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			return int64(f(&m))
		}
	}
	return memory.NewObject("Runtime", "Go runtime statistics").
		Attribute("Version", "string", "Go version", func() interface{} { return runtime.Version() }, nil).
		Attribute("NumCPU", "int", "logical CPUs usable by the process", func() interface{} { return runtime.NumCPU() }, nil).
		Attribute("Goroutines", "int", "goroutines that currently exist", func() interface{} { return runtime.NumGoroutine() }, nil).
		Attribute("HeapAlloc", "int64", "bytes of allocated heap objects",
			memStat(func(m *runtime.MemStats) uint64 { return m.HeapAlloc }), nil).
		Attribute("NumGC", "int64", "completed GC cycles",
			memStat(func(m *runtime.MemStats) uint64 { return uint64(m.NumGC) }), nil).
		Operation("GC", "runs a garbage collection", nil, "", func(context.Context, []interface{}) (interface{}, error) {
			runtime.GC()
			return nil, nil
		})
}
