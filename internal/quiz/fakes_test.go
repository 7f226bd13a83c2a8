package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/ashureev/codeleap/internal/ai"
	"github.com/ashureev/codeleap/internal/challenge"
	"github.com/ashureev/codeleap/internal/testutil"
)

const validPayload = "```json\n" + `{"problem":"Does this log 3?","code":"const x = 1 + 2;\nconsole.log(x);","codeExplanation":"Adds.","isCorrect":false,"explanation":"It logs 3, but the prompt said 4."}` + "\n```"

// fakeProvider answers Generate with a scripted function.
type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	keys     []string
	generate func(ctx context.Context, req ai.Request) (string, error)
	validate func(ctx context.Context, key string) error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Generate(ctx context.Context, req ai.Request) (string, error) {
	p.mu.Lock()
	p.calls++
	p.keys = append(p.keys, req.APIKey)
	fn := p.generate
	p.mu.Unlock()
	if fn == nil {
		return validPayload, nil
	}
	return fn(ctx, req)
}

func (p *fakeProvider) ValidateKey(ctx context.Context, key string) error {
	if p.validate == nil {
		return nil
	}
	return p.validate(ctx, key)
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// memKV is an in-memory store.KeyValue.
type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: make(map[string]string)} }

func (m *memKV) Get(_ context.Context, userID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[userID+"/"+key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, userID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID+"/"+key] = value
	return nil
}

func (m *memKV) Remove(_ context.Context, userID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID+"/"+key)
	return nil
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(_ string, event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev, ok := event.(Event); ok {
		r.events = append(r.events, ev)
	}
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

var testEpoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestGenerator(p ai.Provider, timeout time.Duration) *Generator {
	clock := testutil.NewFakeClock(testEpoch)
	return NewGenerator(GeneratorConfig{
		Provider:  p,
		Assembler: challenge.NewAssembler(clock),
		Clock:     clock,
		Timeout:   timeout,
		Seed:      func() int64 { return 1 },
	})
}
