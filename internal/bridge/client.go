package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/dmitrijs2005/gophvault/internal/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	ErrUnauthenticated = errors.New("bridge rejected the token")
	ErrUnavailable     = errors.New("vault bridge is unavailable")
	ErrRateLimited     = errors.New("too many bridge requests")
)

// Client talks to the bridge server from the autofill side.
type Client struct {
	conn  *grpc.ClientConn
	token string
}

// NewClient creates a client for target. Extra dial options are appended,
// which lets tests dial an in-memory listener.
func NewClient(target, token string, opts ...grpc.DialOption) (*Client, error) {
	c := &Client{token: token}
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.tokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func withToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.BridgeTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *Client) tokenInterceptor(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	return invoker(withToken(ctx, c.token), method, req, reply, cc, opts...)
}

func (c *Client) RequestVault(ctx context.Context) (services.VaultResponse, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodRequestVault, &emptypb.Empty{}, out); err != nil {
		return services.VaultResponse{}, mapError(err)
	}
	return decodeVaultResponse(out), nil
}

func (c *Client) PromptSaveCredentials(ctx context.Context, creds models.SaveCredentials) error {
	in, err := encodeSaveCredentials(creds)
	if err != nil {
		return err
	}
	if err := c.conn.Invoke(ctx, MethodPromptSaveCredentials, in, new(emptypb.Empty)); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthenticated, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.ResourceExhausted:
		return ErrRateLimited
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrInvalidEntry, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
