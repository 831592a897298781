// Package pagebuilder is the grpc client of the page builder service.
package pagebuilder

import (
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	v1 "github.com/emrgen/pagebuilder/apis/v1"
)

// DefaultAddr is the grpc address of a locally running server.
const DefaultAddr = "localhost:4020"

type Client interface {
	io.Closer
	v1.PageServiceClient
	v1.BlockServiceClient
	v1.VersionServiceClient
}

type client struct {
	conn *grpc.ClientConn
	v1.PageServiceClient
	v1.BlockServiceClient
	v1.VersionServiceClient
}

// NewClient connects to the server at addr. Without options the connection is insecure.
func NewClient(addr string, opts ...grpc.DialOption) (Client, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}

	return &client{
		conn:                 conn,
		PageServiceClient:    v1.NewPageServiceClient(conn),
		BlockServiceClient:   v1.NewBlockServiceClient(conn),
		VersionServiceClient: v1.NewVersionServiceClient(conn),
	}, nil
}

func (c *client) Close() error {
	return c.conn.Close()
}
