package v1

import (
	"os"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

var (
	serviceRe = regexp.MustCompile(`(?ms)^service (\w+) \{(.*?)^\}`)
	rpcRe     = regexp.MustCompile(`rpc (\w+)\(`)
	messageRe = regexp.MustCompile(`(?ms)^message (\w+) \{(\}|.*?^\})`)
	fieldRe   = regexp.MustCompile(`(?m)^\s*(?:optional |repeated )?[\w.]+ (\w+) = \d+;`)
)

func readProto(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile("pagebuilder.proto")
	require.NoError(t, err)
	return string(data)
}

func TestProto_Services(t *testing.T) {
	src := readProto(t)

	descs := map[string]grpc.ServiceDesc{
		PageServiceName:    PageService_ServiceDesc,
		BlockServiceName:   BlockService_ServiceDesc,
		VersionServiceName: VersionService_ServiceDesc,
	}

	found := 0
	for _, m := range serviceRe.FindAllStringSubmatch(src, -1) {
		name := "pagebuilder.v1." + m[1]
		desc, ok := descs[name]
		require.True(t, ok, "unknown service %s", name)
		found++

		rpcs := make([]string, 0)
		for _, rpc := range rpcRe.FindAllStringSubmatch(m[2], -1) {
			rpcs = append(rpcs, rpc[1])
		}
		methods := make([]string, 0, len(desc.Methods))
		for _, method := range desc.Methods {
			methods = append(methods, method.MethodName)
		}
		assert.ElementsMatch(t, methods, rpcs, name)
	}
	assert.Equal(t, len(descs), found)
}

func TestProto_Messages(t *testing.T) {
	src := readProto(t)

	messages := make(map[string][]string)
	for _, m := range messageRe.FindAllStringSubmatch(src, -1) {
		fields := make([]string, 0)
		for _, f := range fieldRe.FindAllStringSubmatch(m[2], -1) {
			fields = append(fields, f[1])
		}
		messages[m[1]] = fields
	}

	types := []any{
		Page{}, Block{}, Version{},
		CreatePageRequest{}, CreatePageResponse{},
		GetPageRequest{}, GetPageResponse{},
		ListPagesRequest{}, ListPagesResponse{},
		UpdatePageRequest{}, UpdatePageResponse{},
		PublishPageRequest{}, PublishPageResponse{},
		UnpublishPageRequest{}, UnpublishPageResponse{},
		DeletePageRequest{}, DeletePageResponse{},
		ListBlocksRequest{}, ListBlocksResponse{},
		CreateBlockRequest{}, CreateBlockResponse{},
		UpdateBlockRequest{}, UpdateBlockResponse{},
		MoveBlockRequest{}, MoveBlockResponse{},
		ReorderBlocksRequest{}, ReorderBlocksResponse{},
		DuplicateBlockRequest{}, DuplicateBlockResponse{},
		DeleteBlockRequest{}, DeleteBlockResponse{},
		ListVersionsRequest{}, ListVersionsResponse{},
		GetVersionRequest{}, GetVersionResponse{},
		CreateVersionRequest{}, CreateVersionResponse{},
		RestoreVersionRequest{}, RestoreVersionResponse{},
	}
	assert.Len(t, messages, len(types))

	for _, v := range types {
		rt := reflect.TypeOf(v)
		fields, ok := messages[rt.Name()]
		if !assert.True(t, ok, "message %s missing", rt.Name()) {
			continue
		}

		tags := make([]string, 0, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			name, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
			if name != "" && name != "-" {
				tags = append(tags, name)
			}
		}
		assert.ElementsMatch(t, tags, fields, rt.Name())
	}
}
