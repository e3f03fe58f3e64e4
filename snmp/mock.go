package snmp

import (
	"context"
	"sync"

	"pagemeter/fault"
)

// MockClient is a queue-backed test double for Client. Each Get or Walk
// pops the next queued result in FIFO order; an empty queue is an error so
// tests fail loudly on unplanned requests.
type MockClient struct {
	mu    sync.Mutex
	queue []mockResult

	// Requests records every request served, for assertions.
	Requests []Request
}

type mockResult struct {
	resp *Response
	err  error
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

// PushResponse queues varbinds to be returned by the next request.
func (m *MockClient) PushResponse(vbs ...VarBind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockResult{resp: &Response{VarBinds: vbs}})
}

// PushError queues a failure for the next request.
func (m *MockClient) PushError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockResult{err: err})
}

func (m *MockClient) Get(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := m.pop(req)
	if err != nil {
		return nil, err
	}
	if res.err != nil {
		return nil, res.err
	}
	resp := *res.resp
	resp.Address = req.Address
	return &resp, nil
}

func (m *MockClient) Walk(ctx context.Context, req WalkRequest) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := m.pop(Request{Address: req.Address, Community: req.Community, OIDs: []OID{req.Root}})
	if err != nil {
		return nil, err
	}
	if res.err != nil {
		return nil, res.err
	}
	resp := *res.resp
	resp.Address = req.Address
	return &resp, nil
}

func (m *MockClient) pop(req Request) (mockResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if len(m.queue) == 0 {
		return mockResult{}, fault.NewTransport(req.Address.String(), "mock response queue is empty", nil)
	}
	res := m.queue[0]
	m.queue = m.queue[1:]
	return res, nil
}
