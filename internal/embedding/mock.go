package embedding

import "context"

// MockClient is a test double for Client. Set EmbedFunc to control behavior;
// the zero value returns a fixed three-dimensional vector.
type MockClient struct {
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)
	Calls     []string
}

// Embed records the call and delegates to EmbedFunc when set.
func (m *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	m.Calls = append(m.Calls, text)
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}
