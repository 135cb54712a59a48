// Package hooks implements C10: the three lifecycle entry points that
// wire C4-C9 together for a host agent's hook system (§4's control
// flow table, §6.4).
package hooks

import (
	"encoding/json"
	"io"
)

// maxEnvelopeBytes caps the stdin read; hook payloads are small JSON
// objects, so this is generous headroom against unbounded allocation.
const maxEnvelopeBytes = 1 << 20

// Envelope is the JSON object a hook reads on stdin (§6.4). Only the
// fields this system actually consumes are typed; unknown fields are
// ignored rather than rejected, since the host agent's envelope shape
// is an external contract this system does not own (§1 out-of-scope).
type Envelope struct {
	HookEventName string `json:"hook_event_name"`
	SessionID     string `json:"session_id"`
	Prompt        string `json:"prompt"`
	ToolName      string `json:"tool_name"`
	ToolInput     struct {
		Command string `json:"command"`
	} `json:"tool_input"`
	ToolResponse struct {
		Stdout string `json:"stdout"`
	} `json:"tool_response"`
}

// ReadEnvelope decodes an Envelope from r. An empty or malformed
// payload decodes to a zero-value Envelope rather than an error --
// hook input is only ever wrong because the host agent's contract
// changed, and a hook must never crash on that (§6.4, §7).
func ReadEnvelope(r io.Reader) Envelope {
	data, err := io.ReadAll(io.LimitReader(r, maxEnvelopeBytes))
	if err != nil {
		return Envelope{}
	}
	var env Envelope
	_ = json.Unmarshal(data, &env)
	return env
}

// Known hook_event_name values this system recognizes.
const (
	EventPromptSubmit = "UserPromptSubmit"
	EventPostTool     = "PostToolUse"
	EventStop         = "Stop"
)
