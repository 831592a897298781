package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	PageServiceName    = "pagebuilder.v1.PageService"
	BlockServiceName   = "pagebuilder.v1.BlockService"
	VersionServiceName = "pagebuilder.v1.VersionService"
)

// unary describes one unary rpc of service name backed by call.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method

	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}

			return interceptor(ctx, in, info, handler)
		},
	}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, "/"+service+"/"+method, in, out, CallOptions(opts...)...); err != nil {
		return nil, err
	}

	return out, nil
}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

// PageServiceServer manages pages.
type PageServiceServer interface {
	CreatePage(context.Context, *CreatePageRequest) (*CreatePageResponse, error)
	GetPage(context.Context, *GetPageRequest) (*GetPageResponse, error)
	ListPages(context.Context, *ListPagesRequest) (*ListPagesResponse, error)
	UpdatePage(context.Context, *UpdatePageRequest) (*UpdatePageResponse, error)
	PublishPage(context.Context, *PublishPageRequest) (*PublishPageResponse, error)
	UnpublishPage(context.Context, *UnpublishPageRequest) (*UnpublishPageResponse, error)
	DeletePage(context.Context, *DeletePageRequest) (*DeletePageResponse, error)
}

var PageService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PageServiceName,
	HandlerType: (*PageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(PageServiceName, "CreatePage", PageServiceServer.CreatePage),
		unary(PageServiceName, "GetPage", PageServiceServer.GetPage),
		unary(PageServiceName, "ListPages", PageServiceServer.ListPages),
		unary(PageServiceName, "UpdatePage", PageServiceServer.UpdatePage),
		unary(PageServiceName, "PublishPage", PageServiceServer.PublishPage),
		unary(PageServiceName, "UnpublishPage", PageServiceServer.UnpublishPage),
		unary(PageServiceName, "DeletePage", PageServiceServer.DeletePage),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "apis/v1/page.go",
}

func RegisterPageServiceServer(s grpc.ServiceRegistrar, srv PageServiceServer) {
	s.RegisterService(&PageService_ServiceDesc, srv)
}

// UnimplementedPageServiceServer can be embedded to have forward compatible implementations.
type UnimplementedPageServiceServer struct{}

func (UnimplementedPageServiceServer) CreatePage(context.Context, *CreatePageRequest) (*CreatePageResponse, error) {
	return nil, unimplemented("CreatePage")
}
func (UnimplementedPageServiceServer) GetPage(context.Context, *GetPageRequest) (*GetPageResponse, error) {
	return nil, unimplemented("GetPage")
}
func (UnimplementedPageServiceServer) ListPages(context.Context, *ListPagesRequest) (*ListPagesResponse, error) {
	return nil, unimplemented("ListPages")
}
func (UnimplementedPageServiceServer) UpdatePage(context.Context, *UpdatePageRequest) (*UpdatePageResponse, error) {
	return nil, unimplemented("UpdatePage")
}
func (UnimplementedPageServiceServer) PublishPage(context.Context, *PublishPageRequest) (*PublishPageResponse, error) {
	return nil, unimplemented("PublishPage")
}
func (UnimplementedPageServiceServer) UnpublishPage(context.Context, *UnpublishPageRequest) (*UnpublishPageResponse, error) {
	return nil, unimplemented("UnpublishPage")
}
func (UnimplementedPageServiceServer) DeletePage(context.Context, *DeletePageRequest) (*DeletePageResponse, error) {
	return nil, unimplemented("DeletePage")
}

type PageServiceClient interface {
	CreatePage(ctx context.Context, in *CreatePageRequest, opts ...grpc.CallOption) (*CreatePageResponse, error)
	GetPage(ctx context.Context, in *GetPageRequest, opts ...grpc.CallOption) (*GetPageResponse, error)
	ListPages(ctx context.Context, in *ListPagesRequest, opts ...grpc.CallOption) (*ListPagesResponse, error)
	UpdatePage(ctx context.Context, in *UpdatePageRequest, opts ...grpc.CallOption) (*UpdatePageResponse, error)
	PublishPage(ctx context.Context, in *PublishPageRequest, opts ...grpc.CallOption) (*PublishPageResponse, error)
	UnpublishPage(ctx context.Context, in *UnpublishPageRequest, opts ...grpc.CallOption) (*UnpublishPageResponse, error)
	DeletePage(ctx context.Context, in *DeletePageRequest, opts ...grpc.CallOption) (*DeletePageResponse, error)
}

type pageServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPageServiceClient(cc grpc.ClientConnInterface) PageServiceClient {
	return &pageServiceClient{cc: cc}
}

func (c *pageServiceClient) CreatePage(ctx context.Context, in *CreatePageRequest, opts ...grpc.CallOption) (*CreatePageResponse, error) {
	return invoke[CreatePageResponse](ctx, c.cc, PageServiceName, "CreatePage", in, opts)
}

func (c *pageServiceClient) GetPage(ctx context.Context, in *GetPageRequest, opts ...grpc.CallOption) (*GetPageResponse, error) {
	return invoke[GetPageResponse](ctx, c.cc, PageServiceName, "GetPage", in, opts)
}

func (c *pageServiceClient) ListPages(ctx context.Context, in *ListPagesRequest, opts ...grpc.CallOption) (*ListPagesResponse, error) {
	return invoke[ListPagesResponse](ctx, c.cc, PageServiceName, "ListPages", in, opts)
}

func (c *pageServiceClient) UpdatePage(ctx context.Context, in *UpdatePageRequest, opts ...grpc.CallOption) (*UpdatePageResponse, error) {
	return invoke[UpdatePageResponse](ctx, c.cc, PageServiceName, "UpdatePage", in, opts)
}

func (c *pageServiceClient) PublishPage(ctx context.Context, in *PublishPageRequest, opts ...grpc.CallOption) (*PublishPageResponse, error) {
	return invoke[PublishPageResponse](ctx, c.cc, PageServiceName, "PublishPage", in, opts)
}

func (c *pageServiceClient) UnpublishPage(ctx context.Context, in *UnpublishPageRequest, opts ...grpc.CallOption) (*UnpublishPageResponse, error) {
	return invoke[UnpublishPageResponse](ctx, c.cc, PageServiceName, "UnpublishPage", in, opts)
}

func (c *pageServiceClient) DeletePage(ctx context.Context, in *DeletePageRequest, opts ...grpc.CallOption) (*DeletePageResponse, error) {
	return invoke[DeletePageResponse](ctx, c.cc, PageServiceName, "DeletePage", in, opts)
}

// BlockServiceServer edits the blocks of a page.
type BlockServiceServer interface {
	ListBlocks(context.Context, *ListBlocksRequest) (*ListBlocksResponse, error)
	CreateBlock(context.Context, *CreateBlockRequest) (*CreateBlockResponse, error)
	UpdateBlock(context.Context, *UpdateBlockRequest) (*UpdateBlockResponse, error)
	MoveBlock(context.Context, *MoveBlockRequest) (*MoveBlockResponse, error)
	ReorderBlocks(context.Context, *ReorderBlocksRequest) (*ReorderBlocksResponse, error)
	DuplicateBlock(context.Context, *DuplicateBlockRequest) (*DuplicateBlockResponse, error)
	DeleteBlock(context.Context, *DeleteBlockRequest) (*DeleteBlockResponse, error)
}

var BlockService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: BlockServiceName,
	HandlerType: (*BlockServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(BlockServiceName, "ListBlocks", BlockServiceServer.ListBlocks),
		unary(BlockServiceName, "CreateBlock", BlockServiceServer.CreateBlock),
		unary(BlockServiceName, "UpdateBlock", BlockServiceServer.UpdateBlock),
		unary(BlockServiceName, "MoveBlock", BlockServiceServer.MoveBlock),
		unary(BlockServiceName, "ReorderBlocks", BlockServiceServer.ReorderBlocks),
		unary(BlockServiceName, "DuplicateBlock", BlockServiceServer.DuplicateBlock),
		unary(BlockServiceName, "DeleteBlock", BlockServiceServer.DeleteBlock),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "apis/v1/block.go",
}

func RegisterBlockServiceServer(s grpc.ServiceRegistrar, srv BlockServiceServer) {
	s.RegisterService(&BlockService_ServiceDesc, srv)
}

type UnimplementedBlockServiceServer struct{}

func (UnimplementedBlockServiceServer) ListBlocks(context.Context, *ListBlocksRequest) (*ListBlocksResponse, error) {
	return nil, unimplemented("ListBlocks")
}
func (UnimplementedBlockServiceServer) CreateBlock(context.Context, *CreateBlockRequest) (*CreateBlockResponse, error) {
	return nil, unimplemented("CreateBlock")
}
func (UnimplementedBlockServiceServer) UpdateBlock(context.Context, *UpdateBlockRequest) (*UpdateBlockResponse, error) {
	return nil, unimplemented("UpdateBlock")
}
func (UnimplementedBlockServiceServer) MoveBlock(context.Context, *MoveBlockRequest) (*MoveBlockResponse, error) {
	return nil, unimplemented("MoveBlock")
}
func (UnimplementedBlockServiceServer) ReorderBlocks(context.Context, *ReorderBlocksRequest) (*ReorderBlocksResponse, error) {
	return nil, unimplemented("ReorderBlocks")
}
func (UnimplementedBlockServiceServer) DuplicateBlock(context.Context, *DuplicateBlockRequest) (*DuplicateBlockResponse, error) {
	return nil, unimplemented("DuplicateBlock")
}
func (UnimplementedBlockServiceServer) DeleteBlock(context.Context, *DeleteBlockRequest) (*DeleteBlockResponse, error) {
	return nil, unimplemented("DeleteBlock")
}

type BlockServiceClient interface {
	ListBlocks(ctx context.Context, in *ListBlocksRequest, opts ...grpc.CallOption) (*ListBlocksResponse, error)
	CreateBlock(ctx context.Context, in *CreateBlockRequest, opts ...grpc.CallOption) (*CreateBlockResponse, error)
	UpdateBlock(ctx context.Context, in *UpdateBlockRequest, opts ...grpc.CallOption) (*UpdateBlockResponse, error)
	MoveBlock(ctx context.Context, in *MoveBlockRequest, opts ...grpc.CallOption) (*MoveBlockResponse, error)
	ReorderBlocks(ctx context.Context, in *ReorderBlocksRequest, opts ...grpc.CallOption) (*ReorderBlocksResponse, error)
	DuplicateBlock(ctx context.Context, in *DuplicateBlockRequest, opts ...grpc.CallOption) (*DuplicateBlockResponse, error)
	DeleteBlock(ctx context.Context, in *DeleteBlockRequest, opts ...grpc.CallOption) (*DeleteBlockResponse, error)
}

type blockServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBlockServiceClient(cc grpc.ClientConnInterface) BlockServiceClient {
	return &blockServiceClient{cc: cc}
}

func (c *blockServiceClient) ListBlocks(ctx context.Context, in *ListBlocksRequest, opts ...grpc.CallOption) (*ListBlocksResponse, error) {
	return invoke[ListBlocksResponse](ctx, c.cc, BlockServiceName, "ListBlocks", in, opts)
}

func (c *blockServiceClient) CreateBlock(ctx context.Context, in *CreateBlockRequest, opts ...grpc.CallOption) (*CreateBlockResponse, error) {
	return invoke[CreateBlockResponse](ctx, c.cc, BlockServiceName, "CreateBlock", in, opts)
}

func (c *blockServiceClient) UpdateBlock(ctx context.Context, in *UpdateBlockRequest, opts ...grpc.CallOption) (*UpdateBlockResponse, error) {
	return invoke[UpdateBlockResponse](ctx, c.cc, BlockServiceName, "UpdateBlock", in, opts)
}

func (c *blockServiceClient) MoveBlock(ctx context.Context, in *MoveBlockRequest, opts ...grpc.CallOption) (*MoveBlockResponse, error) {
	return invoke[MoveBlockResponse](ctx, c.cc, BlockServiceName, "MoveBlock", in, opts)
}

func (c *blockServiceClient) ReorderBlocks(ctx context.Context, in *ReorderBlocksRequest, opts ...grpc.CallOption) (*ReorderBlocksResponse, error) {
	return invoke[ReorderBlocksResponse](ctx, c.cc, BlockServiceName, "ReorderBlocks", in, opts)
}

func (c *blockServiceClient) DuplicateBlock(ctx context.Context, in *DuplicateBlockRequest, opts ...grpc.CallOption) (*DuplicateBlockResponse, error) {
	return invoke[DuplicateBlockResponse](ctx, c.cc, BlockServiceName, "DuplicateBlock", in, opts)
}

func (c *blockServiceClient) DeleteBlock(ctx context.Context, in *DeleteBlockRequest, opts ...grpc.CallOption) (*DeleteBlockResponse, error) {
	return invoke[DeleteBlockResponse](ctx, c.cc, BlockServiceName, "DeleteBlock", in, opts)
}

// VersionServiceServer captures and restores page versions.
type VersionServiceServer interface {
	ListVersions(context.Context, *ListVersionsRequest) (*ListVersionsResponse, error)
	GetVersion(context.Context, *GetVersionRequest) (*GetVersionResponse, error)
	CreateVersion(context.Context, *CreateVersionRequest) (*CreateVersionResponse, error)
	RestoreVersion(context.Context, *RestoreVersionRequest) (*RestoreVersionResponse, error)
}

var VersionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: VersionServiceName,
	HandlerType: (*VersionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(VersionServiceName, "ListVersions", VersionServiceServer.ListVersions),
		unary(VersionServiceName, "GetVersion", VersionServiceServer.GetVersion),
		unary(VersionServiceName, "CreateVersion", VersionServiceServer.CreateVersion),
		unary(VersionServiceName, "RestoreVersion", VersionServiceServer.RestoreVersion),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "apis/v1/version.go",
}

func RegisterVersionServiceServer(s grpc.ServiceRegistrar, srv VersionServiceServer) {
	s.RegisterService(&VersionService_ServiceDesc, srv)
}

type UnimplementedVersionServiceServer struct{}

func (UnimplementedVersionServiceServer) ListVersions(context.Context, *ListVersionsRequest) (*ListVersionsResponse, error) {
	return nil, unimplemented("ListVersions")
}
func (UnimplementedVersionServiceServer) GetVersion(context.Context, *GetVersionRequest) (*GetVersionResponse, error) {
	return nil, unimplemented("GetVersion")
}
func (UnimplementedVersionServiceServer) CreateVersion(context.Context, *CreateVersionRequest) (*CreateVersionResponse, error) {
	return nil, unimplemented("CreateVersion")
}
func (UnimplementedVersionServiceServer) RestoreVersion(context.Context, *RestoreVersionRequest) (*RestoreVersionResponse, error) {
	return nil, unimplemented("RestoreVersion")
}

type VersionServiceClient interface {
	ListVersions(ctx context.Context, in *ListVersionsRequest, opts ...grpc.CallOption) (*ListVersionsResponse, error)
	GetVersion(ctx context.Context, in *GetVersionRequest, opts ...grpc.CallOption) (*GetVersionResponse, error)
	CreateVersion(ctx context.Context, in *CreateVersionRequest, opts ...grpc.CallOption) (*CreateVersionResponse, error)
	RestoreVersion(ctx context.Context, in *RestoreVersionRequest, opts ...grpc.CallOption) (*RestoreVersionResponse, error)
}

type versionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewVersionServiceClient(cc grpc.ClientConnInterface) VersionServiceClient {
	return &versionServiceClient{cc: cc}
}

func (c *versionServiceClient) ListVersions(ctx context.Context, in *ListVersionsRequest, opts ...grpc.CallOption) (*ListVersionsResponse, error) {
	return invoke[ListVersionsResponse](ctx, c.cc, VersionServiceName, "ListVersions", in, opts)
}

func (c *versionServiceClient) GetVersion(ctx context.Context, in *GetVersionRequest, opts ...grpc.CallOption) (*GetVersionResponse, error) {
	return invoke[GetVersionResponse](ctx, c.cc, VersionServiceName, "GetVersion", in, opts)
}

func (c *versionServiceClient) CreateVersion(ctx context.Context, in *CreateVersionRequest, opts ...grpc.CallOption) (*CreateVersionResponse, error) {
	return invoke[CreateVersionResponse](ctx, c.cc, VersionServiceName, "CreateVersion", in, opts)
}

func (c *versionServiceClient) RestoreVersion(ctx context.Context, in *RestoreVersionRequest, opts ...grpc.CallOption) (*RestoreVersionResponse, error) {
	return invoke[RestoreVersionResponse](ctx, c.cc, VersionServiceName, "RestoreVersion", in, opts)
}
