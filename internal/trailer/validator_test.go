package trailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ruleNames(diags []Diagnostic, rule string) int {
	n := 0
	for _, d := range diags {
		if d.Rule == rule {
			n++
		}
	}
	return n
}

func TestValidate_ScopeMaxEntriesAndFormat(t *testing.T) {
	raw := "feat(api): add webhook retries\n" +
		"\n" +
		"adds retry with backoff\n" +
		"\n" +
		"Intent: enable-capability\n" +
		"Scope: auth, backend, orders/pricing, billing"

	diags := Validate(raw)

	assert.Equal(t, 1, ruleNames(diags, "scope-max-entries"))
	assert.Equal(t, 3, ruleNames(diags, "scope-format"))
}

func TestValidate_MissingIntentAndScope(t *testing.T) {
	raw := "feat(api): add webhook retries\n\nadds retries"
	diags := Validate(raw)
	assert.Equal(t, 1, ruleNames(diags, "intent-required"))
	assert.Equal(t, 1, ruleNames(diags, "scope-required"))
}

func TestValidate_HeaderTooLong(t *testing.T) {
	long := "feat(api): this subject line goes on for a very long time well past the seventy two character budget"
	diags := Validate(long)
	assert.GreaterOrEqual(t, ruleNames(diags, "header-too-long"), 1)
}

func TestValidate_BodyOptionalForChore(t *testing.T) {
	raw := "chore(build): bump deps\n\nIntent: configure-infra\nScope: build"
	diags := Validate(raw)
	assert.Equal(t, 0, ruleNames(diags, "missing-body"))
}

func TestValidate_ContextInvalidJSON(t *testing.T) {
	raw := "feat(api): x\n\nbody\n\nIntent: enable-capability\nScope: api\nContext: {bad"
	diags := Validate(raw)
	assert.Equal(t, 1, ruleNames(diags, "context-invalid"))
}
