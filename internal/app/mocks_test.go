package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/diffcommit/diffcommit/internal/pkg/ai"
	"github.com/diffcommit/diffcommit/internal/pkg/config"
	"github.com/diffcommit/diffcommit/internal/pkg/history"
	"github.com/diffcommit/diffcommit/internal/pkg/ui"
)

// MockSource is a mock implementation of git.Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Diff(ctx context.Context, staged bool) (string, error) {
	args := m.Called(ctx, staged)
	return args.String(0), args.Error(1)
}

func (m *MockSource) SetMessage(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

func (m *MockSource) MessagePath() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSource) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSource) Root() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSource) Branch() string {
	args := m.Called()
	return args.String(0)
}

// MockBackend is a mock implementation of ai.Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockBackend) Generate(ctx context.Context, diff string, cfg config.GenerationConfig) (*ai.Result, error) {
	args := m.Called(ctx, diff, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.Result), args.Error(1)
}

// MockUIManager is a mock implementation of ui.Manager
type MockUIManager struct {
	mock.Mock
}

func (m *MockUIManager) DisplayMessage(message string) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockUIManager) PromptPreviewAction() (ui.Action, error) {
	args := m.Called()
	return args.Get(0).(ui.Action), args.Error(1)
}

func (m *MockUIManager) EditMessage(message string) (string, error) {
	args := m.Called(message)
	return args.String(0), args.Error(1)
}

func (m *MockUIManager) ShowSpinner(text string) ui.Spinner {
	args := m.Called(text)
	return args.Get(0).(ui.Spinner)
}

func (m *MockUIManager) ShowError(err error) {
	m.Called(err)
}

func (m *MockUIManager) ShowWarning(message string) {
	m.Called(message)
}

func (m *MockUIManager) ShowSuccess(message string) {
	m.Called(message)
}

func (m *MockUIManager) ShowInfo(message string) {
	m.Called(message)
}

func (m *MockUIManager) PromptConfirm(message string) (bool, error) {
	args := m.Called(message)
	return args.Bool(0), args.Error(1)
}

func (m *MockUIManager) PromptSecret(title string) (string, error) {
	args := m.Called(title)
	return args.String(0), args.Error(1)
}

func (m *MockUIManager) PromptHostname(current string, validate func(string) error) (string, error) {
	args := m.Called(current, validate)
	return args.String(0), args.Error(1)
}

func (m *MockUIManager) PickModel(models []string, current string) (string, error) {
	args := m.Called(models, current)
	return args.String(0), args.Error(1)
}

func (m *MockUIManager) PromptProvider(current config.Provider) (config.Provider, error) {
	args := m.Called(current)
	return args.Get(0).(config.Provider), args.Error(1)
}

// MockSpinner is a mock implementation of ui.Spinner
type MockSpinner struct {
	mock.Mock
}

func (m *MockSpinner) Start() {
	m.Called()
}

func (m *MockSpinner) Stop() {
	m.Called()
}

func (m *MockSpinner) UpdateText(text string) {
	m.Called(text)
}

// MockHistoryManager is a mock implementation of history.Manager
type MockHistoryManager struct {
	mock.Mock
}

func (m *MockHistoryManager) Save(entry *history.Entry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockHistoryManager) MarkCommitted(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockHistoryManager) List(limit int) ([]*history.Entry, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.Entry), args.Error(1)
}

func (m *MockHistoryManager) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// MockSecretStore is a mock implementation of security.SecretStore
type MockSecretStore struct {
	mock.Mock
}

func (m *MockSecretStore) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockSecretStore) Set(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *MockSecretStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// MockModelLister is a mock implementation of ai.ModelLister
type MockModelLister struct {
	mock.Mock
}

func (m *MockModelLister) ListModels(ctx context.Context, hostname string) ([]string, error) {
	args := m.Called(ctx, hostname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockConfigManager is a mock implementation of config.Manager
type MockConfigManager struct {
	mock.Mock
}

func (m *MockConfigManager) Load() (*config.Config, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Config), args.Error(1)
}

func (m *MockConfigManager) Set(key string, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *MockConfigManager) SetMany(values map[string]interface{}) error {
	args := m.Called(values)
	return args.Error(0)
}

func (m *MockConfigManager) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockConfigManager) Init() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockConfigManager) List() map[string]interface{} {
	args := m.Called()
	return args.Get(0).(map[string]interface{})
}

func (m *MockConfigManager) GetConfigPath() string {
	args := m.Called()
	return args.String(0)
}

// fakeSink records every message written to it.
type fakeSink struct {
	writes []string
	err    error
}

func (s *fakeSink) SetMessage(text string) error {
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, text)
	return nil
}
