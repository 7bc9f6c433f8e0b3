package mocks

import (
	"context"
	"fmt"

	"github.com/user/forecastbot/pkg/ports"
)

// Publisher is a mock implementation of ports.Publisher.
type Publisher struct {
	PlatformName ports.Platform
	Required     []string
	PublishFunc  func(ctx context.Context, req ports.PublishRequest) (*ports.PublishResult, error)

	Requests []ports.PublishRequest
}

// NewPublisher creates a mock publisher that succeeds with post id "<platform>-1".
func NewPublisher(platform ports.Platform) *Publisher {
	return &Publisher{PlatformName: platform}
}

func (m *Publisher) Platform() ports.Platform { return m.PlatformName }

func (m *Publisher) RequiredCredentials() []string { return m.Required }

func (m *Publisher) Publish(ctx context.Context, req ports.PublishRequest) (*ports.PublishResult, error) {
	m.Requests = append(m.Requests, req)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, req)
	}
	id := fmt.Sprintf("%s-%d", m.PlatformName, len(m.Requests))
	return &ports.PublishResult{Platform: m.PlatformName, PostID: id}, nil
}

var _ ports.Publisher = (*Publisher)(nil)

// Credentials is a map-backed ports.CredentialSource.
type Credentials map[string]string

// Lookup implements ports.CredentialSource.
func (c Credentials) Lookup(key string) (string, bool) {
	v, ok := c[key]
	return v, ok
}

var _ ports.CredentialSource = Credentials(nil)
