package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// methodLimiter keeps one token bucket per full method name.
type methodLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	entries map[string]*rate.Limiter
}

func newMethodLimiter(limit rate.Limit, burst int) *methodLimiter {
	return &methodLimiter{limit: limit, burst: burst, entries: make(map[string]*rate.Limiter)}
}

func (m *methodLimiter) allow(method string) bool {
	m.mu.Lock()
	lim := m.entries[method]
	if lim == nil {
		lim = rate.NewLimiter(m.limit, m.burst)
		m.entries[method] = lim
	}
	m.mu.Unlock()
	return lim.Allow()
}

func (s *Server) rateLimitInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !s.limiter.allow(info.FullMethod) {
		s.logger.Warn(ctx, "bridge call rate limited", "method", info.FullMethod)
		return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
	}
	return handler(ctx, req)
}

func (s *Server) tokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.BridgeTokenHeaderName); len(values) > 0 {
			token = values[0]
		}
	}
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	key, err := s.keys.DeriveSubkey(common.BridgeTokenSubkeyInfo)
	if errors.Is(err, common.ErrNotUnlocked) {
		return nil, status.Error(codes.Unauthenticated, common.ErrNotUnlocked.Error())
	}
	if err != nil {
		s.logger.Error(ctx, "derive bridge key", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	defer common.WipeByteArray(key)

	if err := VerifyToken(token, key); err != nil {
		s.logger.Warn(ctx, "bridge token rejected", "method", info.FullMethod)
		return nil, status.Error(codes.Unauthenticated, ErrInvalidToken.Error())
	}

	return handler(ctx, req)
}
