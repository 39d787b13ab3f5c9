package synthesis

import (
	"context"
	"sync"
)

// mockGenerator is a mock implementation of the TextGenerator interface
type mockGenerator struct {
	mu           sync.Mutex
	calls        int
	prompts      []string
	generateFunc func(ctx context.Context, call int, prompt string) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.generateFunc != nil {
		return m.generateFunc(ctx, call, prompt)
	}
	return "", nil
}

func (m *mockGenerator) Name() string {
	return "mock"
}

// replyWith returns a generator that always answers with s
func replyWith(s string) *mockGenerator {
	return &mockGenerator{
		generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
			return s, nil
		},
	}
}

// recordingLogger keeps warnings for assertions
type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {}
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  {}
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}
