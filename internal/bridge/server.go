package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/netx"
	"github.com/dmitrijs2005/gophvault/internal/services"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// KeySource derives the token signing key from the session secret.
type KeySource interface {
	DeriveSubkey(info string) ([]byte, error)
}

// Server answers the autofill client on a loopback address.
type Server struct {
	address string
	svc     services.BridgeService
	keys    KeySource
	limiter *methodLimiter
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, svc services.BridgeService, keys KeySource, limit rate.Limit, burst int) *Server {
	return &Server{
		address: address,
		svc:     svc,
		keys:    keys,
		limiter: newMethodLimiter(limit, burst),
		logger:  l.With("module", "bridge_server"),
	}
}

// Run listens on the configured loopback address and serves until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := netx.RequireLoopback(s.address); err != nil {
		return err
	}
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.rateLimitInterceptor, s.tokenInterceptor))
	RegisterVaultBridgeServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping bridge server")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "starting bridge server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *Server) RequestVault(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	resp, err := encodeVaultResponse(s.svc.RequestVault(ctx))
	if err != nil {
		s.logger.Error(ctx, "encode vault response", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}

func (s *Server) PromptSaveCredentials(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	err := s.svc.PromptSaveCredentials(ctx, decodeSaveCredentials(in))
	switch {
	case errors.Is(err, common.ErrInvalidEntry):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrNotUnlocked):
		return nil, status.Error(codes.Unauthenticated, err.Error())
	case err != nil:
		s.logger.Error(ctx, "park save prompt", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &emptypb.Empty{}, nil
}

// IssueSessionToken signs a bridge token with the key derived from the
// current session. It fails with common.ErrNotUnlocked while locked.
func IssueSessionToken(keys KeySource, ttl time.Duration) (string, error) {
	key, err := keys.DeriveSubkey(common.BridgeTokenSubkeyInfo)
	if err != nil {
		return "", fmt.Errorf("bridge key: %w", err)
	}
	defer common.WipeByteArray(key)
	return IssueToken(key, ttl)
}
