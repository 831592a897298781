// Package module holds grpc building blocks shared by the server and its clients.
package module

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	authorization = "authorization"
	bearerPrefix  = "bearer "
)

var (
	errMissingMetadata = errors.New("metadata not found")
	errMissingHeader   = errors.New("authorization header not found")
	errNotBearer       = errors.New("authorization header is not a bearer token")
)

// UnaryServerAuthTokenInterceptor rejects calls that do not carry token as a
// bearer token. Methods listed in public are let through without one.
func UnaryServerAuthTokenInterceptor(token string, public ...string) grpc.UnaryServerInterceptor {
	open := make(map[string]bool, len(public))
	for _, method := range public {
		open[method] = true
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		if open[info.FullMethod] {
			return handler(ctx, req)
		}

		accessToken, err := accessTokenFromHeader(ctx, authorization)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		if subtle.ConstantTimeCompare([]byte(accessToken), []byte(token)) != 1 {
			return nil, status.Error(codes.Unauthenticated, "access token verification failed")
		}

		return handler(ctx, req)
	}
}

// WithBearerToken adds token to the outgoing metadata of ctx.
func WithBearerToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, authorization, "Bearer "+token)
}

func accessTokenFromHeader(ctx context.Context, header string) (string, error) {
	headers, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errMissingMetadata
	}

	val := headers.Get(header)
	if len(val) == 0 || val[0] == "" {
		return "", errMissingHeader
	}

	authToken := val[0]
	if len(authToken) <= len(bearerPrefix) || !strings.EqualFold(authToken[:len(bearerPrefix)], bearerPrefix) {
		return "", errNotBearer
	}

	return strings.TrimSpace(authToken[len(bearerPrefix):]), nil
}
