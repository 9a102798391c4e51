package api

import (
	"context"
	"fmt"
)

type MockAPIGenerator struct {
	NewFunc func(path string) Client
}

func (m *MockAPIGenerator) New(path string, args ...any) Client {
	return m.NewFunc(fmt.Sprintf(path, args...))
}

type MockAPIClient struct {
	Path string
	Q    Parameter

	POSTFunc func(ctx context.Context, c *MockAPIClient) (*Response, error)
	GETFunc  func(ctx context.Context, c *MockAPIClient) (*Response, error)
}

func (c *MockAPIClient) Header(name, value string) Client {
	return c
}

func (c *MockAPIClient) Query(query Parameter) Client {
	c.Q = query
	return c
}

func (c *MockAPIClient) Body(body Body) Client {
	return c
}

func (c *MockAPIClient) POST(ctx context.Context, opts ...Opt) (*Response, error) {
	if c.POSTFunc != nil {
		return c.POSTFunc(ctx, c)
	}

	panic("not implemented")
}

func (c *MockAPIClient) GET(ctx context.Context, opts ...Opt) (*Response, error) {
	if c.GETFunc != nil {
		return c.GETFunc(ctx, c)
	}

	panic("not implemented")
}
