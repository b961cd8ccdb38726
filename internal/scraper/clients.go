package scraper

import (
	"context"
	"sync"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// ClientPool caches one API client per credential, so repeated calls avoid
// client construction and connection handshake overhead.
type ClientPool struct {
	tokens *TokenPool

	mu      sync.Mutex
	clients map[string]*github.Client
}

// NewClientPool creates a client pool backed by the given token pool.
func NewClientPool(tokens *TokenPool) *ClientPool {
	return &ClientPool{
		tokens:  tokens,
		clients: make(map[string]*github.Client),
	}
}

// Instance lazily constructs and caches a client for the credential.
func (p *ClientPool) Instance(credential string) *github.Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[credential]; ok {
		return client
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential})
	client := github.NewClient(oauth2.NewClient(context.Background(), ts))
	p.clients[credential] = client
	return client
}

// BestInstance composes token selection with client retrieval. This is the
// primary entry point used by every strategy and fetcher.
func (p *ClientPool) BestInstance() (*github.Client, string, error) {
	cred, err := p.tokens.CheckAndRotate()
	if err != nil {
		return nil, "", err
	}
	return p.Instance(cred), cred, nil
}
