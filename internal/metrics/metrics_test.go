package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestUnaryServerInterceptor(t *testing.T) {
	interceptor := UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/pagebuilder.v1.Test/Call"}

	ok := testutil.ToFloat64(GrpcRequestsTotal.WithLabelValues(info.FullMethod, codes.OK.String()))
	notFound := testutil.ToFloat64(GrpcRequestsTotal.WithLabelValues(info.FullMethod, codes.NotFound.String()))

	resp, err := interceptor(context.TODO(), "req", info, func(ctx context.Context, req any) (any, error) {
		return "resp", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "resp", resp)

	_, err = interceptor(context.TODO(), "req", info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "missing")
	})
	require.Error(t, err)

	assert.Equal(t, ok+1, testutil.ToFloat64(GrpcRequestsTotal.WithLabelValues(info.FullMethod, codes.OK.String())))
	assert.Equal(t, notFound+1, testutil.ToFloat64(GrpcRequestsTotal.WithLabelValues(info.FullMethod, codes.NotFound.String())))
	assert.Zero(t, testutil.ToFloat64(GrpcRequestsInFlight))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "error", Outcome(errors.New("x")))
}
