package storagemock

import (
	"context"

	"github.com/raterudder/solarquote/pkg/storage"
	"github.com/raterudder/solarquote/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockSink struct {
	mock.Mock
}

var _ storage.Sink = (*MockSink)(nil)

func (m *MockSink) WriteQuote(ctx context.Context, in types.Inputs, q types.Quote) error {
	args := m.Called(ctx, in, q)
	return args.Error(0)
}

func (m *MockSink) Close() error {
	args := m.Called()
	if len(args) > 0 {
		return args.Error(0)
	}
	return nil
}
