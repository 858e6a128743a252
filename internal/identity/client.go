package identity

import (
	"context"
	"sync"
)

// Client implements Provider on top of a Backend. Notifications are
// delivered synchronously, in the goroutine that changed the credential.
type Client struct {
	backend Backend

	mu        sync.Mutex
	current   *Credential
	listeners map[int]func(*Credential)
	nextID    int
}

func NewClient(backend Backend) *Client {
	return &Client{
		backend:   backend,
		listeners: make(map[int]func(*Credential)),
	}
}

func (c *Client) CreateIdentity(ctx context.Context, email, password string) (*Credential, error) {
	cred, err := c.backend.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.set(cred)
	return cred, nil
}

func (c *Client) Authenticate(ctx context.Context, email, password string) (*Credential, error) {
	cred, err := c.backend.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.set(cred)
	return cred, nil
}

// Invalidate revokes the current credential. The local credential is
// cleared even when the revoke call fails.
func (c *Client) Invalidate(ctx context.Context) error {
	cur := c.Current()
	if cur == nil {
		return nil
	}
	err := c.backend.Revoke(ctx, cur.UID)
	c.set(nil)
	return err
}

// Current returns the active credential or nil.
func (c *Client) Current() *Credential {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Subscribe delivers the current state to fn right away, then every change.
func (c *Client) Subscribe(fn func(*Credential)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	cur := c.current
	c.mu.Unlock()

	fn(cur)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) set(cred *Credential) {
	c.mu.Lock()
	c.current = cred
	fns := make([]func(*Credential), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(cred)
	}
}

var _ Provider = (*Client)(nil)
