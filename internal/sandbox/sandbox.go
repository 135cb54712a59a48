// Package sandbox implements C8: an isolated execution environment for
// LLM-authored code fragments, using the same yaegi interpreter and
// "stdlib symbols only, no os/exec/net" posture as a one-shot tool
// executor, generalized into a stateful, multi-turn sandbox that
// persists interpreter state across calls and exposes the eight-name
// host API over Go closures instead of JavaScript promises.
//
// Adaptation note (WHAT changed): the source protocol is JS-shaped
// message passing (execute/llm-request/gitlog-request/result) driven
// by promises. Go has no promises, and yaegi interprets Go, not
// JavaScript. callLlm and gitLog become plain synchronous Go closures
// bound into the interpreter's scope, blocking the goroutine running
// the interpreted code until the injected effect returns -- the same
// wait-for-response shape, just without a promise or an id-keyed
// pending-request map, since only one Execute is ever outstanding per
// sandbox. What does become a small message loop is Eval itself: every
// Execute call hands its code to a single long-lived worker goroutine
// over a job channel and waits on a per-job result channel, so a
// timed-out, abandoned Eval and the next Execute's Eval are always
// serialized rather than run concurrently against the shared
// interpreter.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/srdjan/rlm-git-commits/internal/gitlog"
	"github.com/srdjan/rlm-git-commits/internal/index"
	"github.com/srdjan/rlm-git-commits/internal/llmclient"
	"github.com/srdjan/rlm-git-commits/internal/logging"
	"github.com/srdjan/rlm-git-commits/internal/memory"
)

// defaultExecuteTimeout is the per-execute wall clock budget (§4.8).
const defaultExecuteTimeout = 2 * time.Second

// ErrExecutionTimedOut is returned when a call exceeds the execute
// timeout. The sandbox is not torn down; its goroutine may still be
// running in the background (§4.8).
const ErrExecutionTimedOut = "sandbox-execution-timed-out"

// ErrLLMBudgetExhausted is returned by CallLLM once the REPL's
// recursive-call budget is consumed (§4.9).
const ErrLLMBudgetExhausted = "llm-budget-exhausted"

// Env is the read-only data the sandbox's bound API exposes to
// LLM-authored code (§4.8's init{env}).
type Env struct {
	Index         *index.TrailerIndex
	WorkingMemory *memory.WorkingMemory
	ScopeKeys     []string
}

// GitLogEffect executes a pre-sanitized `git log` invocation.
type GitLogEffect func(ctx context.Context, args []string) (string, error)

// LLMBudget is consulted before every CallLLM sub-call the sandboxed
// code makes; the REPL driver owns the counter (§4.9).
type LLMBudget interface {
	TryConsume() bool
}

// Output is what one Execute call reports back to the REPL (§4.8).
type Output struct {
	Stdout       string
	Error        string
	Done         bool
	DoneAnswer   string
	SubCallCount int
}

// Sandbox is one isolated yaegi interpreter instance bound to a fixed
// Env and set of effects. It lives for the duration of a single REPL
// run (§3 lifecycle).
type Sandbox struct {
	env       Env
	llm       llmclient.Client
	gitEffect GitLogEffect
	budget    LLMBudget

	interp *interp.Interpreter

	mu           sync.Mutex // guards the fields below, including terminated
	execCtx      context.Context
	stdout       strings.Builder
	done         bool
	doneAnswer   string
	subCallCount int

	terminated bool

	// jobs is the single channel through which every Eval call reaches
	// the interpreter, read by the one worker goroutine started in New.
	// Routing all code through one worker -- rather than spawning a
	// fresh goroutine per Execute -- is what keeps a timed-out, still-
	// running Eval from ever overlapping the next one: the next
	// Execute's job cannot be picked up until the worker finishes the
	// abandoned one, since only one job is in flight at a time. jobs is
	// never closed (a concurrent close while Execute is mid-send would
	// panic); Terminate instead closes stop, which the worker also
	// selects on, so an Execute racing a Terminate at worst times out
	// waiting for a worker that has already exited.
	jobs chan evalJob
	stop chan struct{}
}

type evalJob struct {
	code   string
	result chan evalResult
}

type evalResult struct {
	err error
}

// New creates a sandbox bound to env, ready to accept Execute calls.
// The interpreter is loaded with the full stdlib symbol table; os/exec
// and net access are unreachable regardless because the bound API is
// the code's only path to the outside world. It also loads a
// dot-imported package exposing the eight host names.
func New(env Env, llm llmclient.Client, gitEffect GitLogEffect, budget LLMBudget) (*Sandbox, error) {
	sb := &Sandbox{env: env, llm: llm, gitEffect: gitEffect, budget: budget, jobs: make(chan evalJob), stop: make(chan struct{})}

	sb.interp = interp.New(interp.Options{})
	if err := sb.interp.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load stdlib symbols: %w", err)
	}
	if err := sb.interp.Use(sb.exports()); err != nil {
		return nil, fmt.Errorf("bind sandbox api: %w", err)
	}
	if _, err := sb.interp.Eval(`import . "sandboxapi/sandboxapi"`); err != nil {
		return nil, fmt.Errorf("import sandbox api: %w", err)
	}

	go sb.worker()
	return sb, nil
}

// worker owns the interpreter exclusively: it is the only goroutine
// that ever calls sb.interp.Eval, one job at a time, for the sandbox's
// entire lifetime. It exits once Terminate closes sb.stop, after
// finishing whatever job (if any) it is currently running.
func (sb *Sandbox) worker() {
	for {
		select {
		case job := <-sb.jobs:
			// yaegi parses a fragment that begins with an import as a
			// whole source file and then rejects top-level statements, so
			// leading import lines (single or grouped) are evaluated on
			// their own first; the imports persist in the session.
			lines := strings.Split(job.code, "\n")
			n, inGroup := 0, false
			for ; n < len(lines); n++ {
				l := strings.TrimSpace(lines[n])
				if !inGroup && l != "" && !strings.HasPrefix(l, "import ") && !strings.HasPrefix(l, "import(") {
					break
				}
				inGroup = (inGroup && l != ")") || (!inGroup && strings.HasSuffix(l, "("))
			}
			var err error
			if head := strings.Join(lines[:n], "\n"); strings.TrimSpace(head) != "" {
				_, err = sb.interp.Eval(head)
			}
			if err == nil && n < len(lines) {
				_, err = sb.interp.Eval(strings.Join(lines[n:], "\n"))
			}
			job.result <- evalResult{err: err}
		case <-sb.stop:
			return
		}
	}
}

// exports builds the reflect-based symbol table yaegi injects as
// package "sandboxapi/sandboxapi", one entry per bound name (§4.8).
func (sb *Sandbox) exports() interp.Exports {
	return interp.Exports{
		"sandboxapi/sandboxapi": map[string]reflect.Value{
			"Query":         reflect.ValueOf(sb.query),
			"CallLLM":       reflect.ValueOf(sb.callLLM),
			"GitLog":        reflect.ValueOf(sb.gitLog),
			"Done":          reflect.ValueOf(sb.setDone),
			"Log":           reflect.ValueOf(sb.log),
			"Index":         reflect.ValueOf(sb.index),
			"WorkingMemory": reflect.ValueOf(sb.workingMemory),
			"ScopeKeys":     reflect.ValueOf(sb.scopeKeys),
		},
	}
}

// query is bound as Query(scope string, intents []string, session,
// decidedAgainst string, limit int). The interpreted code never needs
// to construct a host-defined struct literal to call it -- every
// parameter is a builtin type yaegi can build without a type import,
// which sidesteps having to also export index.QueryParams into the
// interpreter's type table.
func (sb *Sandbox) query(scope string, intents []string, session, decidedAgainst string, limit int) []index.IndexedCommit {
	if sb.env.Index == nil {
		return []index.IndexedCommit{}
	}
	return index.Query(sb.env.Index, index.QueryParams{
		Scope:          scope,
		Intents:        intents,
		Session:        session,
		DecidedAgainst: decidedAgainst,
		Limit:          limit,
	})
}

// callLLM is bound as CallLLM(prompt string). The wire-level protocol
// (§4.8) allows a full chat-message array; sandboxed code only ever
// needs to ask a single follow-up question, so the bound signature is
// narrowed to one string in, one string out, wrapped in a single-turn
// user message before it reaches the LLM effect.
func (sb *Sandbox) callLLM(prompt string) (string, error) {
	if sb.budget != nil && !sb.budget.TryConsume() {
		return "", errors.New(ErrLLMBudgetExhausted)
	}
	sb.mu.Lock()
	sb.subCallCount++
	ctx := sb.execCtx
	sb.mu.Unlock()

	if sb.llm == nil {
		return "", errors.New("no llm effect configured")
	}
	return sb.llm.Chat(ctx, []llmclient.Message{{Role: llmclient.RoleUser, Content: prompt}})
}

func (sb *Sandbox) gitLog(args []string) (string, error) {
	clean, err := gitlog.Sanitize(args)
	if err != nil {
		return "", err
	}
	sb.mu.Lock()
	ctx := sb.execCtx
	sb.mu.Unlock()
	if sb.gitEffect == nil {
		return "", errors.New("no gitlog effect configured")
	}
	return sb.gitEffect(ctx, clean)
}

func (sb *Sandbox) setDone(answer string) {
	sb.mu.Lock()
	sb.done = true
	sb.doneAnswer = answer
	sb.mu.Unlock()
}

func (sb *Sandbox) log(args ...interface{}) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	sb.mu.Lock()
	sb.stdout.WriteString(strings.Join(parts, " ") + "\n")
	sb.mu.Unlock()
}

func (sb *Sandbox) index() *index.TrailerIndex           { return sb.env.Index }
func (sb *Sandbox) workingMemory() *memory.WorkingMemory { return sb.env.WorkingMemory }
func (sb *Sandbox) scopeKeys() []string                  { return sb.env.ScopeKeys }

// Execute runs one code fragment against this sandbox's persistent
// interpreter session. Top-level declarations and assignments the
// code makes persist into the next Execute call, since yaegi keeps
// evaluating against the same interpreter (§4.8 "state lifetime").
//
// Every Eval reaches the interpreter through the sandbox's single
// worker goroutine (started in New), so at most one is ever running
// at a time. A second call made while the worker is still busy -- for
// instance still running an abandoned, timed-out call -- blocks
// handing off its own job until the worker is free, and can itself
// time out while waiting to do so; it never starts a competing Eval
// against the same interpreter. On timeout the call returns an error
// carrying ErrExecutionTimedOut and the underlying job is abandoned
// rather than killed -- Go has no safe way to preempt a running
// goroutine, and sandbox state must survive a timed-out call for a
// possible recovery attempt.
func (sb *Sandbox) Execute(ctx context.Context, code string) (Output, error) {
	sb.mu.Lock()
	if sb.terminated {
		sb.mu.Unlock()
		return Output{}, errors.New("sandbox terminated")
	}
	sb.stdout.Reset()
	sb.done = false
	sb.doneAnswer = ""
	sb.subCallCount = 0
	sb.execCtx = ctx
	sb.mu.Unlock()

	log := logging.Get(logging.CategorySandbox)

	timeout := defaultExecuteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	job := evalJob{code: code, result: make(chan evalResult, 1)}

	select {
	case sb.jobs <- job:
	case <-sb.stop:
		return Output{}, errors.New("sandbox terminated")
	case <-timer.C:
		log.Warn("execute timed out after %s waiting for the sandbox worker", timeout)
		return Output{}, errors.New(ErrExecutionTimedOut)
	}

	select {
	case r := <-job.result:
		sb.mu.Lock()
		out := Output{
			Stdout:       sb.stdout.String(),
			Done:         sb.done,
			DoneAnswer:   sb.doneAnswer,
			SubCallCount: sb.subCallCount,
		}
		sb.mu.Unlock()
		if r.err != nil {
			out.Error = r.err.Error()
			log.Debug("execute produced error: %v", r.err)
		}
		return out, nil

	case <-timer.C:
		log.Warn("execute timed out after %s", timeout)
		return Output{}, errors.New(ErrExecutionTimedOut)
	}
}

// Terminate marks the sandbox unusable and signals its worker to stop,
// so the worker goroutine exits once it finishes whatever job (if any)
// it is currently running. The REPL guarantees Terminate is called on
// every exit path (§4.9).
func (sb *Sandbox) Terminate() {
	sb.mu.Lock()
	already := sb.terminated
	sb.terminated = true
	sb.mu.Unlock()
	if !already {
		close(sb.stop)
	}
}
