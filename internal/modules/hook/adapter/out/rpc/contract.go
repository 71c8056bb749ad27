package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "hook"
	serviceName       = "mdpomo.hook.v1.Hook"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodHandleEvent = "/" + serviceName + "/HandleEvent"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "MDPOMO_HOOK",
	MagicCookieValue: "mdpomo",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Event struct {
	Name       string `json:"name"`
	RunID      string `json:"run_id"`
	Mode       string `json:"mode"`
	AtUnixMS   int64  `json:"at_unix_ms"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	LogKind    string `json:"log_kind"`
	DurationMS int64  `json:"duration_ms"`
	VaultPath  string `json:"vault_path"`
}

type HandleEventResponse struct {
	Handled bool   `json:"handled"`
	Detail  string `json:"detail"`
}

type HookServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	HandleEvent(ctx context.Context, in *Event) (*HandleEventResponse, error)
}

type HookClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	HandleEvent(ctx context.Context, in *Event) (*HandleEventResponse, error)
}

type hookClient struct {
	conn *grpc.ClientConn
}

func NewHookClient(conn *grpc.ClientConn) HookClient {
	return &hookClient{conn: conn}
}

func (c *hookClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hookClient) HandleEvent(ctx context.Context, in *Event) (*HandleEventResponse, error) {
	out := &HandleEventResponse{}
	if err := c.conn.Invoke(ctx, methodHandleEvent, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterHookServer(server grpc.ServiceRegistrar, impl HookServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*HookServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "HandleEvent",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Event{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.HandleEvent(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodHandleEvent}
					handler := func(ctx context.Context, req any) (any, error) {
						event, ok := req.(*Event)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.HandleEvent(ctx, event)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/hook-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl HookServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterHookServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewHookClient(conn), nil
}

func PluginMap(impl HookServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
