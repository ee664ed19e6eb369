// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

type PingService struct{}

type PingReply struct {
	Message string `json:"message"`
}

func (*PingService) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	reply.Message = "pong"
	return nil
}

func TestServer(t *testing.T) {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	s := New(logging.NoLog{}, listener, NewDefaultHTTPConfig(), []string{"*"}, time.Second)
	s.AddRoute(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}), "/health")

	served := make(chan error, 1)
	go func() {
		served <- s.Dispatch()
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal("ok", string(body))

	resp, err = http.Get("http://" + listener.Addr().String() + "/missing")
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusNotFound, resp.StatusCode)

	require.NoError(s.Shutdown())
	require.True(errors.Is(<-served, http.ErrServerClosed))
}

func TestNewHandler(t *testing.T) {
	require := require.New(t)

	_, err := NewHandler(&PingService{}, "test")
	require.NoError(err)

	_, err = NewHandler(struct{}{}, "test")
	require.Error(err)
}
