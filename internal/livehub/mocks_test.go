package livehub_test

import (
	"sync"

	"civictrack/backend/internal/livehub"
	"civictrack/backend/internal/models"
)

// mockClient implements livehub.Client with an inspectable receive channel.
type mockClient struct {
	id   string
	Recv chan models.Event

	mu     sync.Mutex
	closed bool
}

func newMockClient(id string, buffer int) *mockClient {
	return &mockClient{id: id, Recv: make(chan models.Event, buffer)}
}

func (c *mockClient) UserID() string { return c.id }
func (c *mockClient) Run()           {}

func (c *mockClient) Deliver(ev models.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Recv <- ev:
		return true
	default:
		return false
	}
}

func (c *mockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *mockClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

var _ livehub.Client = (*mockClient)(nil)
