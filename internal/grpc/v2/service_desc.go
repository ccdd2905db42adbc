package v2

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	methodMarkdownify = "/" + ServiceName + "/Markdownify"
	methodTelegramify = "/" + ServiceName + "/Telegramify"
	methodStandardize = "/" + ServiceName + "/Standardize"
	methodHealth      = "/" + ServiceName + "/Health"
	methodDebug       = "/" + ServiceName + "/Debug"
)

// FormatterServiceDesc описывает сервис для grpc.ServiceRegistrar.
var FormatterServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FormatterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Markdownify", Handler: markdownifyHandler},
		{MethodName: "Telegramify", Handler: telegramifyHandler},
		{MethodName: "Standardize", Handler: standardizeHandler},
		{MethodName: "Health", Handler: healthHandler},
		{MethodName: "Debug", Handler: debugHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "telegramify/v2/formatter.proto",
}

func RegisterFormatterServer(s grpc.ServiceRegistrar, srv FormatterServer) {
	s.RegisterService(&FormatterServiceDesc, srv)
}

// unary собирает типовой обработчик unary-метода.
func unary[Req any, Resp any](method string, call func(FormatterServer, context.Context, *Req) (Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FormatterServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FormatterServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	markdownifyHandler = unary(methodMarkdownify, FormatterServer.Markdownify)
	telegramifyHandler = unary(methodTelegramify, FormatterServer.Telegramify)
	standardizeHandler = unary(methodStandardize, FormatterServer.Standardize)
	healthHandler      = unary(methodHealth, FormatterServer.Health)
	debugHandler       = unary(methodDebug, FormatterServer.Debug)
)

// FormatterClient представляет клиент сервиса Formatter.
type FormatterClient struct {
	cc grpc.ClientConnInterface
}

func NewFormatterClient(cc grpc.ClientConnInterface) *FormatterClient {
	return &FormatterClient{cc: cc}
}

func (c *FormatterClient) Markdownify(ctx context.Context, text string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, methodMarkdownify, wrapperspb.String(text), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

func (c *FormatterClient) Telegramify(ctx context.Context, text string, opts ...grpc.CallOption) ([]map[string]any, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, methodTelegramify, wrapperspb.String(text), out, opts...); err != nil {
		return nil, err
	}
	records := make([]map[string]any, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		records = append(records, v.GetStructValue().AsMap())
	}
	return records, nil
}

func (c *FormatterClient) Standardize(ctx context.Context, text string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, methodStandardize, wrapperspb.String(text), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

func (c *FormatterClient) Health(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodHealth, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FormatterClient) Debug(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodDebug, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
