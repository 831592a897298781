package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/emrgen/pagebuilder/internal/builder"
	"github.com/emrgen/pagebuilder/internal/store"
)

var (
	// ErrInvalidSlug is returned when a slug is not lowercase words joined by single hyphens.
	ErrInvalidSlug = errors.New("slug must be lowercase letters and digits separated by single hyphens")
	// ErrUnknownBlockType is returned when a block is created with a type outside the known set.
	ErrUnknownBlockType = errors.New("unknown block type")
	// ErrInvalidContent is returned when block content can not be decoded for its type.
	ErrInvalidContent = errors.New("invalid block content")
)

// toStatus converts an error to a grpc status error.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	// checked first: a partial reorder also unwraps to the individual row errors
	var reorderErr *builder.ReorderError
	if errors.As(err, &reorderErr) {
		return status.Error(codes.Aborted, err.Error())
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, store.ErrPageNotFound),
		errors.Is(err, store.ErrBlockNotFound),
		errors.Is(err, store.ErrVersionNotFound),
		errors.Is(err, builder.ErrUnknownBlock):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, store.ErrSlugTaken):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, builder.ErrNotConfirmed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, builder.ErrInvalidOrder),
		errors.Is(err, builder.ErrContentMismatch),
		errors.Is(err, ErrInvalidSlug),
		errors.Is(err, ErrUnknownBlockType),
		errors.Is(err, ErrInvalidContent):
		return status.Error(codes.InvalidArgument, err.Error())
	}

	logrus.Errorf("internal error: %v", err)
	return status.Error(codes.Internal, err.Error())
}
