package repl

import "sync"

// budget is the shared llmCallCount counter consulted both by the
// REPL's own top-level LLM calls and by the sandbox's recursive
// CallLLM sub-calls (§4.9). It implements sandbox.LLMBudget.
type budget struct {
	mu    sync.Mutex
	count int
	max   int
}

func newBudget(max int) *budget {
	return &budget{max: max}
}

// TryConsume reports whether one more LLM call fits inside the
// budget, incrementing the counter if so.
func (b *budget) TryConsume() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count >= b.max {
		return false
	}
	b.count++
	return true
}

// forceConsume increments the counter unconditionally, bypassing the
// cap. It exists solely for the REPL's forced final text turn, which
// the invariant llmCallCount <= maxLlmCalls+1 explicitly allows to
// push the count one past max (§4.9, §8).
func (b *budget) forceConsume() {
	b.mu.Lock()
	b.count++
	b.mu.Unlock()
}

func (b *budget) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
