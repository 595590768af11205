package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ErrUnknownToken is returned by resolvers for tokens that map to no owner
var ErrUnknownToken = errors.New("unknown token")

// OwnerResolver is the identity collaborator: it turns a bearer token into an owner id
type OwnerResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// StaticTokenResolver resolves tokens from a fixed token -> owner table
type StaticTokenResolver map[string]uuid.UUID

// Resolve implements OwnerResolver
func (r StaticTokenResolver) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	owner, ok := r[token]
	if !ok {
		return uuid.Nil, ErrUnknownToken
	}
	return owner, nil
}

type ownerKey struct{}

// WithOwner returns a context carrying the authenticated owner
func WithOwner(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the owner placed by AuthInterceptor
func OwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	owner, ok := ctx.Value(ownerKey{}).(uuid.UUID)
	return owner, ok
}

// AuthInterceptor returns a gRPC unary server interceptor that resolves
// the authorization token from request metadata to an owner id.
// If the token is missing or unknown, it returns status.Unauthenticated.
// If valid, it calls the handler with the owner in the context.
// Methods listed in publicMethods skip authentication.
func AuthInterceptor(resolver OwnerResolver, publicMethods ...string) grpc.UnaryServerInterceptor {
	public := make(map[string]struct{}, len(publicMethods))
	for _, m := range publicMethods {
		public[m] = struct{}{}
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if _, ok := public[info.FullMethod]; ok {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		owner, err := resolver.Resolve(ctx, token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(WithOwner(ctx, owner), req)
	}
}

// LoggingInterceptor logs every call with its status code and duration
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}
		switch code {
		case codes.OK:
			logger.Debug("rpc handled", fields...)
		case codes.Internal, codes.Unknown:
			logger.Error("rpc failed", append(fields, zap.Error(err))...)
		default:
			logger.Info("rpc rejected", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}
