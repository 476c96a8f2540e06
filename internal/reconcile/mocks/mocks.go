// Package mocks holds gomock doubles for the reconcile ports.
package mocks

import (
	context "context"
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"

	entity "github.com/csandman/audnexus/internal/entity"
	store "github.com/csandman/audnexus/internal/store"
)

// MockStore is a mock of the reconcile Store interface.
type MockStore[T entity.Profile] struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder[T]
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder[T entity.Profile] struct {
	mock *MockStore[T]
}

// NewMockStore creates a new mock instance.
func NewMockStore[T entity.Profile](ctrl *gomock.Controller) *MockStore[T] {
	mock := &MockStore[T]{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder[T]{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore[T]) EXPECT() *MockStoreMockRecorder[T] {
	return m.recorder
}

// FindOne mocks base method.
func (m *MockStore[T]) FindOne(ctx context.Context, asin, region string) (entity.Document[T], bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindOne", ctx, asin, region)
	ret0, _ := ret[0].(entity.Document[T])
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// FindOne indicates an expected call of FindOne.
func (mr *MockStoreMockRecorder[T]) FindOne(ctx, asin, region interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindOne", reflect.TypeOf((*MockStore[T])(nil).FindOne), ctx, asin, region)
}

// CreateOrUpdate mocks base method.
func (m *MockStore[T]) CreateOrUpdate(ctx context.Context, asin, region string, data T, allowUpdate bool) (store.Result[T], error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateOrUpdate", ctx, asin, region, data, allowUpdate)
	ret0, _ := ret[0].(store.Result[T])
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateOrUpdate indicates an expected call of CreateOrUpdate.
func (mr *MockStoreMockRecorder[T]) CreateOrUpdate(ctx, asin, region, data, allowUpdate interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateOrUpdate", reflect.TypeOf((*MockStore[T])(nil).CreateOrUpdate), ctx, asin, region, data, allowUpdate)
}

// Delete mocks base method.
func (m *MockStore[T]) Delete(ctx context.Context, asin, region string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, asin, region)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Delete indicates an expected call of Delete.
func (mr *MockStoreMockRecorder[T]) Delete(ctx, asin, region interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockStore[T])(nil).Delete), ctx, asin, region)
}

// MockCache is a mock of the reconcile Cache interface.
type MockCache[T entity.Profile] struct {
	ctrl     *gomock.Controller
	recorder *MockCacheMockRecorder[T]
}

// MockCacheMockRecorder is the mock recorder for MockCache.
type MockCacheMockRecorder[T entity.Profile] struct {
	mock *MockCache[T]
}

// NewMockCache creates a new mock instance.
func NewMockCache[T entity.Profile](ctrl *gomock.Controller) *MockCache[T] {
	mock := &MockCache[T]{ctrl: ctrl}
	mock.recorder = &MockCacheMockRecorder[T]{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCache[T]) EXPECT() *MockCacheMockRecorder[T] {
	return m.recorder
}

// Get mocks base method.
func (m *MockCache[T]) Get(ctx context.Context, asin, region string) (T, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, asin, region)
	ret0, _ := ret[0].(T)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockCacheMockRecorder[T]) Get(ctx, asin, region interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockCache[T])(nil).Get), ctx, asin, region)
}

// Set mocks base method.
func (m *MockCache[T]) Set(ctx context.Context, data T) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Set", ctx, data)
}

// Set indicates an expected call of Set.
func (mr *MockCacheMockRecorder[T]) Set(ctx, data interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Set", reflect.TypeOf((*MockCache[T])(nil).Set), ctx, data)
}

// Delete mocks base method.
func (m *MockCache[T]) Delete(ctx context.Context, asin string) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Delete", ctx, asin)
}

// Delete indicates an expected call of Delete.
func (mr *MockCacheMockRecorder[T]) Delete(ctx, asin interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockCache[T])(nil).Delete), ctx, asin)
}

// MockFetcher is a mock of the reconcile Fetcher interface.
type MockFetcher[T entity.Profile] struct {
	ctrl     *gomock.Controller
	recorder *MockFetcherMockRecorder[T]
}

// MockFetcherMockRecorder is the mock recorder for MockFetcher.
type MockFetcherMockRecorder[T entity.Profile] struct {
	mock *MockFetcher[T]
}

// NewMockFetcher creates a new mock instance.
func NewMockFetcher[T entity.Profile](ctrl *gomock.Controller) *MockFetcher[T] {
	mock := &MockFetcher[T]{ctrl: ctrl}
	mock.recorder = &MockFetcherMockRecorder[T]{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockFetcher[T]) EXPECT() *MockFetcherMockRecorder[T] {
	return m.recorder
}

// Fetch mocks base method.
func (m *MockFetcher[T]) Fetch(ctx context.Context, asin, region string) (T, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Fetch", ctx, asin, region)
	ret0, _ := ret[0].(T)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Fetch indicates an expected call of Fetch.
func (mr *MockFetcherMockRecorder[T]) Fetch(ctx, asin, region interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Fetch", reflect.TypeOf((*MockFetcher[T])(nil).Fetch), ctx, asin, region)
}
