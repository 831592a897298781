package v1

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// route forwards one REST endpoint to a client call. The request body (if any) is
// decoded first, then path and query parameters are bound on top of it.
func route[Req any, Resp any](
	mux *runtime.ServeMux,
	method, pattern, rpc string,
	bind func(in *Req, r *http.Request, path map[string]string) error,
	call func(context.Context, *Req, ...grpc.CallOption) (*Resp, error),
) error {
	return mux.HandlePath(method, pattern, func(w http.ResponseWriter, r *http.Request, path map[string]string) {
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		inbound, outbound := runtime.MarshalerForRequest(mux, r)
		ctx, err := runtime.AnnotateContext(ctx, mux, r, rpc, runtime.WithHTTPPathPattern(pattern))
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}

		in := new(Req)
		if r.Body != nil && r.Method != http.MethodGet {
			if err := inbound.NewDecoder(r.Body).Decode(in); err != nil && !errors.Is(err, io.EOF) {
				runtime.HTTPError(ctx, mux, outbound, w, r, status.Errorf(codes.InvalidArgument, "decode body: %v", err))
				return
			}
		}
		if bind != nil {
			if err := bind(in, r, path); err != nil {
				runtime.HTTPError(ctx, mux, outbound, w, r, status.Error(codes.InvalidArgument, err.Error()))
				return
			}
		}

		resp, err := call(ctx, in)
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}

		data, err := outbound.Marshal(resp)
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, status.Errorf(codes.Internal, "encode response: %v", err))
			return
		}
		w.Header().Set("Content-Type", outbound.ContentType(resp))
		if _, err := w.Write(data); err != nil {
			logrus.Errorf("write response %s: %v", rpc, err)
		}
	})
}

func queryBool(r *http.Request, key string) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(key + " must be a boolean")
	}

	return b, nil
}

func queryInt32(r *http.Request, key string) (int32, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}

	return int32(n), nil
}

func join(errs ...error) error {
	return errors.Join(errs...)
}

// dial connects a handler registration to a grpc endpoint and closes the
// connection when ctx is done.
func dial(ctx context.Context, endpoint string, opts []grpc.DialOption) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		if err := conn.Close(); err != nil {
			logrus.Errorf("failed to close conn to %s: %v", endpoint, err)
		}
	}()

	return conn, nil
}

// RegisterPageServiceHandlerFromEndpoint is same as RegisterPageServiceHandlerClient
// but automatically dials to "endpoint".
func RegisterPageServiceHandlerFromEndpoint(ctx context.Context, mux *runtime.ServeMux, endpoint string, opts []grpc.DialOption) error {
	conn, err := dial(ctx, endpoint, opts)
	if err != nil {
		return err
	}

	return RegisterPageServiceHandlerClient(ctx, mux, NewPageServiceClient(conn))
}

// RegisterPageServiceHandlerClient maps the page endpoints under /v1/pages.
func RegisterPageServiceHandlerClient(_ context.Context, mux *runtime.ServeMux, client PageServiceClient) error {
	return join(
		route(mux, http.MethodPost, "/v1/pages", "/"+PageServiceName+"/CreatePage",
			nil, client.CreatePage),
		route(mux, http.MethodGet, "/v1/pages", "/"+PageServiceName+"/ListPages",
			func(in *ListPagesRequest, r *http.Request, _ map[string]string) error {
				offset, oerr := queryInt32(r, "offset")
				limit, lerr := queryInt32(r, "limit")
				in.Offset, in.Limit = offset, limit
				return join(oerr, lerr)
			}, client.ListPages),
		route(mux, http.MethodGet, "/v1/pages/{id}", "/"+PageServiceName+"/GetPage",
			func(in *GetPageRequest, _ *http.Request, path map[string]string) error {
				in.Id = path["id"]
				return nil
			}, client.GetPage),
		route(mux, http.MethodGet, "/v1/slugs/{slug}", "/"+PageServiceName+"/GetPage",
			func(in *GetPageRequest, _ *http.Request, path map[string]string) error {
				in.Slug = path["slug"]
				return nil
			}, client.GetPage),
		route(mux, http.MethodPut, "/v1/pages/{id}", "/"+PageServiceName+"/UpdatePage",
			func(in *UpdatePageRequest, _ *http.Request, path map[string]string) error {
				in.Id = path["id"]
				return nil
			}, client.UpdatePage),
		route(mux, http.MethodPost, "/v1/pages/{id}/publish", "/"+PageServiceName+"/PublishPage",
			func(in *PublishPageRequest, _ *http.Request, path map[string]string) error {
				in.Id = path["id"]
				return nil
			}, client.PublishPage),
		route(mux, http.MethodPost, "/v1/pages/{id}/unpublish", "/"+PageServiceName+"/UnpublishPage",
			func(in *UnpublishPageRequest, _ *http.Request, path map[string]string) error {
				in.Id = path["id"]
				return nil
			}, client.UnpublishPage),
		route(mux, http.MethodDelete, "/v1/pages/{id}", "/"+PageServiceName+"/DeletePage",
			func(in *DeletePageRequest, r *http.Request, path map[string]string) error {
				in.Id = path["id"]
				confirm, err := queryBool(r, "confirm")
				in.Confirm = in.Confirm || confirm
				return err
			}, client.DeletePage),
	)
}

// RegisterBlockServiceHandlerFromEndpoint is same as RegisterBlockServiceHandlerClient
// but automatically dials to "endpoint".
func RegisterBlockServiceHandlerFromEndpoint(ctx context.Context, mux *runtime.ServeMux, endpoint string, opts []grpc.DialOption) error {
	conn, err := dial(ctx, endpoint, opts)
	if err != nil {
		return err
	}

	return RegisterBlockServiceHandlerClient(ctx, mux, NewBlockServiceClient(conn))
}

// RegisterBlockServiceHandlerClient maps the block endpoints under /v1/pages/{page_id}/blocks.
func RegisterBlockServiceHandlerClient(_ context.Context, mux *runtime.ServeMux, client BlockServiceClient) error {
	return join(
		route(mux, http.MethodGet, "/v1/pages/{page_id}/blocks", "/"+BlockServiceName+"/ListBlocks",
			func(in *ListBlocksRequest, _ *http.Request, path map[string]string) error {
				in.PageId = path["page_id"]
				return nil
			}, client.ListBlocks),
		route(mux, http.MethodPost, "/v1/pages/{page_id}/blocks", "/"+BlockServiceName+"/CreateBlock",
			func(in *CreateBlockRequest, _ *http.Request, path map[string]string) error {
				in.PageId = path["page_id"]
				return nil
			}, client.CreateBlock),
		route(mux, http.MethodPut, "/v1/pages/{page_id}/blocks/{id}", "/"+BlockServiceName+"/UpdateBlock",
			func(in *UpdateBlockRequest, _ *http.Request, path map[string]string) error {
				in.PageId, in.Id = path["page_id"], path["id"]
				return nil
			}, client.UpdateBlock),
		route(mux, http.MethodPost, "/v1/pages/{page_id}/blocks/{id}/move", "/"+BlockServiceName+"/MoveBlock",
			func(in *MoveBlockRequest, _ *http.Request, path map[string]string) error {
				in.PageId, in.Id = path["page_id"], path["id"]
				return nil
			}, client.MoveBlock),
		route(mux, http.MethodPut, "/v1/pages/{page_id}/order", "/"+BlockServiceName+"/ReorderBlocks",
			func(in *ReorderBlocksRequest, _ *http.Request, path map[string]string) error {
				in.PageId = path["page_id"]
				return nil
			}, client.ReorderBlocks),
		route(mux, http.MethodPost, "/v1/pages/{page_id}/blocks/{id}/duplicate", "/"+BlockServiceName+"/DuplicateBlock",
			func(in *DuplicateBlockRequest, _ *http.Request, path map[string]string) error {
				in.PageId, in.Id = path["page_id"], path["id"]
				return nil
			}, client.DuplicateBlock),
		route(mux, http.MethodDelete, "/v1/pages/{page_id}/blocks/{id}", "/"+BlockServiceName+"/DeleteBlock",
			func(in *DeleteBlockRequest, r *http.Request, path map[string]string) error {
				in.PageId, in.Id = path["page_id"], path["id"]
				confirm, err := queryBool(r, "confirm")
				in.Confirm = in.Confirm || confirm
				return err
			}, client.DeleteBlock),
	)
}

// RegisterVersionServiceHandlerFromEndpoint is same as RegisterVersionServiceHandlerClient
// but automatically dials to "endpoint".
func RegisterVersionServiceHandlerFromEndpoint(ctx context.Context, mux *runtime.ServeMux, endpoint string, opts []grpc.DialOption) error {
	conn, err := dial(ctx, endpoint, opts)
	if err != nil {
		return err
	}

	return RegisterVersionServiceHandlerClient(ctx, mux, NewVersionServiceClient(conn))
}

// RegisterVersionServiceHandlerClient maps the version endpoints under /v1/pages/{page_id}/versions.
func RegisterVersionServiceHandlerClient(_ context.Context, mux *runtime.ServeMux, client VersionServiceClient) error {
	return join(
		route(mux, http.MethodGet, "/v1/pages/{page_id}/versions", "/"+VersionServiceName+"/ListVersions",
			func(in *ListVersionsRequest, _ *http.Request, path map[string]string) error {
				in.PageId = path["page_id"]
				return nil
			}, client.ListVersions),
		route(mux, http.MethodPost, "/v1/pages/{page_id}/versions", "/"+VersionServiceName+"/CreateVersion",
			func(in *CreateVersionRequest, _ *http.Request, path map[string]string) error {
				in.PageId = path["page_id"]
				return nil
			}, client.CreateVersion),
		route(mux, http.MethodGet, "/v1/pages/{page_id}/versions/{id}", "/"+VersionServiceName+"/GetVersion",
			func(in *GetVersionRequest, _ *http.Request, path map[string]string) error {
				in.PageId, in.Id = path["page_id"], path["id"]
				return nil
			}, client.GetVersion),
		route(mux, http.MethodPost, "/v1/pages/{page_id}/versions/{id}/restore", "/"+VersionServiceName+"/RestoreVersion",
			func(in *RestoreVersionRequest, r *http.Request, path map[string]string) error {
				in.PageId, in.Id = path["page_id"], path["id"]
				confirm, err := queryBool(r, "confirm")
				in.Confirm = in.Confirm || confirm
				return err
			}, client.RestoreVersion),
	)
}
