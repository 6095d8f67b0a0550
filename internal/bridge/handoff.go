package bridge

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/filex"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// TokenPublisher hands bridge tokens to the autofill client through an
// owner-only file. It writes a token when the vault unlocks, refreshes it
// before expiry and removes the file on logout.
type TokenPublisher struct {
	path   string
	ttl    time.Duration
	keys   KeySource
	logger logging.Logger
}

// MinTokenTTL is the shortest lifetime a publisher issues tokens for.
const MinTokenTTL = time.Second

// NewTokenPublisher raises a ttl below MinTokenTTL to MinTokenTTL.
func NewTokenPublisher(path string, ttl time.Duration, keys KeySource, l logging.Logger) *TokenPublisher {
	logger := l.With("module", "bridge_token")
	if ttl < MinTokenTTL {
		logger.Warn(context.Background(), "bridge token ttl too short, using minimum", "ttl", ttl, "min", MinTokenTTL)
		ttl = MinTokenTTL
	}
	return &TokenPublisher{path: path, ttl: ttl, keys: keys, logger: logger}
}

// Publish issues a fresh token and writes it to the token file.
func (p *TokenPublisher) Publish(ctx context.Context) error {
	tok, err := IssueSessionToken(p.keys, p.ttl)
	if err != nil {
		return err
	}
	if err := filex.WriteSecretFile(p.path, []byte(tok+"\n")); err != nil {
		return err
	}
	p.logger.Debug(ctx, "bridge token published", "path", p.path)
	return nil
}

func (p *TokenPublisher) Revoke(ctx context.Context) error {
	if err := filex.RemoveIfExists(p.path); err != nil {
		return err
	}
	p.logger.Debug(ctx, "bridge token removed", "path", p.path)
	return nil
}

// PublishHook and RevokeHook adapt the publisher to session callbacks.
func (p *TokenPublisher) PublishHook(ctx context.Context) {
	if err := p.Publish(ctx); err != nil {
		p.logger.Error(ctx, "publish bridge token", "error", err)
	}
}

func (p *TokenPublisher) RevokeHook(ctx context.Context) {
	if err := p.Revoke(ctx); err != nil {
		p.logger.Error(ctx, "remove bridge token", "error", err)
	}
}

// RunRefresher re-publishes the token at half its lifetime while the
// session is unlocked. It returns when ctx is cancelled.
func (p *TokenPublisher) RunRefresher(ctx context.Context, unlocked func() bool) {
	ticker := time.NewTicker(p.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if unlocked() {
				p.PublishHook(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}
