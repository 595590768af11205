package grpc

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/wallet-backend/internal/adapter/grpc/walletv1"
)

// IdempotencyKeyHeader is the metadata entry clients set to make a mutating call retry-safe
const IdempotencyKeyHeader = "idempotency-key"

// IdempotencyStore remembers the outcome of calls by key
type IdempotencyStore interface {
	// Claim marks key as in progress. It returns false when the key is already claimed or completed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Load returns the stored response for key; pending is true while the first call is still running
	Load(ctx context.Context, key string) (response []byte, pending bool, err error)

	// Save stores the response of a completed call
	Save(ctx context.Context, key string, response []byte, ttl time.Duration) error

	// Release forgets a claimed key so the call can be retried
	Release(ctx context.Context, key string) error
}

// IdempotencyInterceptor replays the first successful response of calls that
// carry the same idempotency key. It must run after AuthInterceptor, since
// keys are scoped to the calling owner. Only methods listed in methods are covered.
func IdempotencyInterceptor(store IdempotencyStore, ttl time.Duration, logger *zap.Logger, methods ...string) grpc.UnaryServerInterceptor {
	covered := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		covered[m] = struct{}{}
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if _, ok := covered[info.FullMethod]; !ok {
			return handler(ctx, req)
		}

		key := idempotencyKey(ctx)
		if key == "" {
			return handler(ctx, req)
		}
		owner, ok := OwnerFromContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "idempotency keys require an authenticated caller")
		}
		scoped := "idempotency:" + owner.String() + ":" + info.FullMethod + ":" + key

		claimed, err := store.Claim(ctx, scoped, ttl)
		if err != nil {
			logger.Error("failed to claim idempotency key", zap.String("key", key), zap.Error(err))
			return nil, status.Error(codes.Unavailable, "idempotency store unavailable")
		}

		if !claimed {
			return replay(ctx, store, scoped, info.FullMethod)
		}

		resp, err := handler(ctx, req)
		if err != nil {
			// Failed calls leave no record, a retry runs them again
			if relErr := store.Release(context.WithoutCancel(ctx), scoped); relErr != nil {
				logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
			}
			return nil, err
		}

		data, err := json.Marshal(resp)
		if err != nil {
			logger.Warn("failed to encode response for idempotency", zap.String("key", key), zap.Error(err))
			return resp, nil
		}
		if err := store.Save(context.WithoutCancel(ctx), scoped, data, ttl); err != nil {
			logger.Warn("failed to save idempotent response", zap.String("key", key), zap.Error(err))
		}
		return resp, nil
	}
}

func replay(ctx context.Context, store IdempotencyStore, key, fullMethod string) (interface{}, error) {
	data, pending, err := store.Load(ctx, key)
	if err != nil {
		return nil, status.Error(codes.Unavailable, "idempotency store unavailable")
	}
	if pending {
		return nil, status.Error(codes.Aborted, "a request with this idempotency key is in progress")
	}

	resp, ok := walletv1.NewResponse(fullMethod)
	if !ok {
		return nil, status.Errorf(codes.Internal, "no response type registered for %s", fullMethod)
	}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, status.Error(codes.Internal, "stored response is unreadable")
	}
	return resp, nil
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(IdempotencyKeyHeader)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
