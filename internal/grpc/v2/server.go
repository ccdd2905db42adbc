// Package v2 реализует gRPC-транспорт сервиса форматирования.
// Сообщения используют well-known типы protobuf, описание сервиса задано вручную.
package v2

import (
	"context"
	"errors"
	"time"

	"github.com/vladimish/telegramify-markdown-api/internal/handlers"
	"github.com/vladimish/telegramify-markdown-api/internal/model"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName задаёт полное имя gRPC-сервиса.
const ServiceName = "telegramify.v2.Formatter"

// FormatterServer описывает серверную часть сервиса.
type FormatterServer interface {
	Markdownify(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Telegramify(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	Standardize(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Health(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Debug(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

type GRPCServer struct {
	Service handlers.Formatter
	Logger  *zap.Logger
}

func NewGRPCServer(svc handlers.Formatter, logger *zap.Logger) *GRPCServer {
	return &GRPCServer{Service: svc, Logger: logger}
}

// NewServer создаёт grpc.Server с логированием и зарегистрированным сервисом.
func NewServer(svc handlers.Formatter, logger *zap.Logger) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		RecoveryInterceptor(logger),
		LoggingInterceptor(logger),
	))
	RegisterFormatterServer(s, NewGRPCServer(svc, logger))
	return s
}

func (s *GRPCServer) Markdownify(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	out, err := s.Service.Markdownify(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(out), nil
}

func (s *GRPCServer) Telegramify(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	records, err := s.Service.Telegramify(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	items := make([]any, 0, len(records))
	for _, rec := range records {
		items = append(items, map[string]any(rec))
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode result: %v", err)
	}
	return list, nil
}

func (s *GRPCServer) Standardize(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	out, err := s.Service.Standardize(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(out), nil
}

func (s *GRPCServer) Health(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"message": s.Service.Health().Message,
	})
}

func (s *GRPCServer) Debug(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	debug := s.Service.Capabilities()

	names := make([]any, 0, len(debug.AvailableFunctions))
	for _, name := range debug.AvailableFunctions {
		names = append(names, name)
	}
	return structpb.NewStruct(map[string]any{
		"available_functions": names,
		"has_markdownify":     debug.HasMarkdownify,
		"has_telegramify":     debug.HasTelegramify,
		"has_standardize":     debug.HasStandardize,
	})
}

// DebugFromStruct разбирает ответ Debug обратно в модель.
func DebugFromStruct(s *structpb.Struct) model.DebugResponse {
	fields := s.GetFields()
	resp := model.DebugResponse{
		AvailableFunctions: []string{},
		HasMarkdownify:     fields["has_markdownify"].GetBoolValue(),
		HasTelegramify:     fields["has_telegramify"].GetBoolValue(),
		HasStandardize:     fields["has_standardize"].GetBoolValue(),
	}
	for _, v := range fields["available_functions"].GetListValue().GetValues() {
		resp.AvailableFunctions = append(resp.AvailableFunctions, v.GetStringValue())
	}
	return resp
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// LoggingInterceptor пишет в лог каждый unary-вызов.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("gRPC Request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}

// RecoveryInterceptor превращает панику обработчика в codes.Internal.
func RecoveryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered", zap.String("method", info.FullMethod), zap.Any("error", r))
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}
