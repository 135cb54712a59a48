// Package repl implements C9: the multi-turn loop between the LLM and
// the sandbox, with budget enforcement and trace capture (§4.9).
package repl

import (
	"context"
	"fmt"
	"time"

	"github.com/srdjan/rlm-git-commits/internal/gitlog"
	"github.com/srdjan/rlm-git-commits/internal/index"
	"github.com/srdjan/rlm-git-commits/internal/llmclient"
	"github.com/srdjan/rlm-git-commits/internal/logging"
	"github.com/srdjan/rlm-git-commits/internal/memory"
	"github.com/srdjan/rlm-git-commits/internal/sandbox"
)

// Config bounds one REPL run (§4.9, §6.2 defaults: 6/10/15000/512).
type Config struct {
	MaxIterations   int
	MaxLLMCalls     int
	TimeoutBudgetMs int
	MaxOutputTokens int
}

// DefaultConfig returns the documented REPL defaults (§6.2).
func DefaultConfig() Config {
	return Config{MaxIterations: 6, MaxLLMCalls: 10, TimeoutBudgetMs: 15000, MaxOutputTokens: 512}
}

// Env is the read-only data surfaced to the sandbox for one run.
type Env struct {
	Index         *index.TrailerIndex
	WorkingMemory *memory.WorkingMemory
	ScopeKeys     []string
}

// TraceEntry records one loop iteration's code and outcome (§4.9 step f).
type TraceEntry struct {
	Iteration    int
	Code         string
	Output       string
	IsError      bool
	SubCallCount int
}

// Result is the outcome of a full REPL run.
type Result struct {
	Answer       string
	Iterations   int
	LLMCallCount int
	Trace        []TraceEntry
}

const executeTimeout = 2 * time.Second

// Run drives the loop described in §4.9. It never returns an error for
// sandbox-side failures -- only a hard LLM-call failure propagates;
// everything else degrades to a best-effort text answer, and the
// sandbox is terminated on every exit path.
func Run(ctx context.Context, cfg Config, env Env, userPrompt string, llm llmclient.Client, git *gitlog.Runner) (Result, error) {
	log := logging.Get(logging.CategoryRepl)
	start := time.Now()
	b := newBudget(cfg.MaxLLMCalls)

	gitEffect := func(ctx context.Context, args []string) (string, error) {
		return git.Sanitized(ctx, args)
	}

	sb, err := sandbox.New(sandbox.Env{
		Index:         env.Index,
		WorkingMemory: env.WorkingMemory,
		ScopeKeys:     env.ScopeKeys,
	}, llm, gitEffect, b)
	if err != nil {
		return Result{}, fmt.Errorf("create sandbox: %w", err)
	}
	defer sb.Terminate()

	messages := []llmclient.Message{
		{Role: llmclient.RoleSystem, Content: buildSystemPrompt(env, cfg)},
		{Role: llmclient.RoleUser, Content: "Task: " + userPrompt + "\n\nWrite Go code to find relevant context, then call Done(answer)."},
	}

	var trace []TraceEntry
	iteration := 0

	for iteration = 1; iteration <= cfg.MaxIterations; iteration++ {
		elapsed := time.Since(start).Milliseconds()
		if elapsed > int64(cfg.TimeoutBudgetMs) || b.Count() >= cfg.MaxLLMCalls {
			break
		}

		if !b.TryConsume() {
			break
		}
		reply, err := llm.Chat(ctx, messages)
		if err != nil {
			return Result{}, fmt.Errorf("llm call failed: %w", err)
		}
		messages = append(messages, llmclient.Message{Role: llmclient.RoleAssistant, Content: reply})

		code, found := extractCode(reply)
		if !found {
			log.Debug("no fenced code block on iteration %d, treating reply as final answer", iteration)
			return Result{Answer: reply, Iterations: iteration, LLMCallCount: b.Count(), Trace: trace}, nil
		}

		execCtx, cancel := context.WithTimeout(ctx, executeTimeout)
		out, execErr := sb.Execute(execCtx, code)
		cancel()

		if execErr != nil {
			log.Warn("sandbox execute error on iteration %d: %v", iteration, execErr)
			trace = append(trace, TraceEntry{Iteration: iteration, Code: code, Output: execErr.Error(), IsError: true})
			messages = append(messages, llmclient.Message{
				Role:    llmclient.RoleUser,
				Content: fmt.Sprintf("Execution error: %s\nFix the error or call Done() with your best answer.", execErr.Error()),
			})
			continue
		}

		trace = append(trace, TraceEntry{
			Iteration:    iteration,
			Code:         code,
			Output:       traceOutput(out),
			IsError:      out.Error != "",
			SubCallCount: out.SubCallCount,
		})

		if out.Done && out.DoneAnswer != "" {
			return Result{Answer: out.DoneAnswer, Iterations: iteration, LLMCallCount: b.Count(), Trace: trace}, nil
		}

		if out.Error != "" {
			messages = append(messages, llmclient.Message{
				Role:    llmclient.RoleUser,
				Content: fmt.Sprintf("Execution error: %s\n%s\nFix the error or call Done() with your best answer.", out.Error, out.Stdout),
			})
			continue
		}

		stdout := out.Stdout
		if stdout == "" {
			stdout = "(no output)"
		}
		messages = append(messages, llmclient.Message{
			Role:    llmclient.RoleUser,
			Content: fmt.Sprintf("Output:\n%s\n\nContinue analysis or call Done(answer).", stdout),
		})
	}

	elapsed := time.Since(start).Milliseconds()
	if elapsed <= int64(cfg.TimeoutBudgetMs) {
		b.forceConsume()
		messages = append(messages, llmclient.Message{
			Role:    llmclient.RoleUser,
			Content: "Iteration budget exhausted. Provide your best answer as plain text (no code block).",
		})
		reply, err := llm.Chat(ctx, messages)
		if err == nil {
			return Result{Answer: reply, Iterations: iteration, LLMCallCount: b.Count(), Trace: trace}, nil
		}
		log.Warn("forced final llm call failed: %v", err)
	}

	if len(trace) > 0 {
		last := trace[len(trace)-1]
		return Result{Answer: last.Output, Iterations: iteration, LLMCallCount: b.Count(), Trace: trace}, nil
	}
	return Result{Answer: "", Iterations: iteration, LLMCallCount: b.Count(), Trace: trace}, nil
}

func traceOutput(out sandbox.Output) string {
	if out.Error != "" {
		return out.Error
	}
	return out.Stdout
}
