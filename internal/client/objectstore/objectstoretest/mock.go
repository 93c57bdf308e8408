// Package objectstoretest provides a testify mock of objectstore.Client.
package objectstoretest

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/beanbocchi/multipart/internal/client/objectstore"
)

type MockClient struct {
	mock.Mock
}

var _ objectstore.Client = (*MockClient)(nil)

func (m *MockClient) OpenSession(ctx context.Context, key string, meta objectstore.ObjectMetadata) (string, error) {
	args := m.Called(ctx, key, meta)
	return args.String(0), args.Error(1)
}

func (m *MockClient) AuthorizePut(ctx context.Context, key string, params objectstore.PartParams, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, params, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockClient) ListParts(ctx context.Context, key, uploadID, marker string) (objectstore.PartsPage, error) {
	args := m.Called(ctx, key, uploadID, marker)
	return args.Get(0).(objectstore.PartsPage), args.Error(1)
}

func (m *MockClient) CompleteSession(ctx context.Context, key, uploadID string, parts []objectstore.CompletedPart) (string, error) {
	args := m.Called(ctx, key, uploadID, parts)
	return args.String(0), args.Error(1)
}

func (m *MockClient) GetMetadata(ctx context.Context, objectKey string) (objectstore.ObjectMetadata, error) {
	args := m.Called(ctx, objectKey)
	return args.Get(0).(objectstore.ObjectMetadata), args.Error(1)
}

func (m *MockClient) AbortSession(ctx context.Context, key, uploadID string) error {
	args := m.Called(ctx, key, uploadID)
	return args.Error(0)
}
