package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
)

// MockEntryRepository is a mock implementation of ports.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Save(ctx context.Context, entry *entities.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id valueobjects.EntryID) (*entities.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Entry), args.Error(1)
}

func (m *MockEntryRepository) List(ctx context.Context) ([]*entities.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Entry), args.Error(1)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id valueobjects.EntryID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEntryLister is a mock implementation of ports.EntryLister
type MockEntryLister struct {
	mock.Mock
}

func (m *MockEntryLister) ListActiveEntries(ctx context.Context) []*entities.Entry {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*entities.Entry)
}

// MockEditRequester is a mock implementation of ports.EditRequester
type MockEditRequester struct {
	mock.Mock
}

func (m *MockEditRequester) RequestEditMode(id string) {
	m.Called(id)
}
