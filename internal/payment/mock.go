package payment

import "context"

// MockProvider implements Provider for testing. Set the function fields
// you need; unset fields return zero values.
type MockProvider struct {
	ScriptURLFunc    func() string
	CreateOrderFunc  func(ctx context.Context, amountCents int64, description string) (string, error)
	CaptureOrderFunc func(ctx context.Context, orderID string) (string, error)

	CreateCalls  int
	CaptureCalls int
}

func (m *MockProvider) ScriptURL() string {
	if m.ScriptURLFunc != nil {
		return m.ScriptURLFunc()
	}
	return "https://example.test/sdk/js?client-id=test"
}

func (m *MockProvider) CreateOrder(ctx context.Context, amountCents int64, description string) (string, error) {
	m.CreateCalls++
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amountCents, description)
	}
	return "ORDER-1", nil
}

func (m *MockProvider) CaptureOrder(ctx context.Context, orderID string) (string, error) {
	m.CaptureCalls++
	if m.CaptureOrderFunc != nil {
		return m.CaptureOrderFunc(ctx, orderID)
	}
	return "CAPTURE-1", nil
}

// MockScriptLoader implements ScriptLoader for testing and counts loads
// so tests can assert the script is fetched at most once.
type MockScriptLoader struct {
	LoadFunc func(ctx context.Context) error
	Loads    int
}

func (m *MockScriptLoader) Load(ctx context.Context) error {
	m.Loads++
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return nil
}
