package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeMatches(t *testing.T) {
	assert.True(t, ScopeMatches("auth", "auth"))
	assert.True(t, ScopeMatches("auth/login", "auth"))
	assert.True(t, ScopeMatches("auth/login/flow", "auth"))
	assert.False(t, ScopeMatches("authn", "auth"))
	assert.True(t, ScopeMatches("AUTH/Login", "auth"))
}

func TestWordBoundaryMatch(t *testing.T) {
	assert.True(t, WordBoundaryMatch("we picked Redis sentinel instead", "Redis"))
	assert.False(t, WordBoundaryMatch("we picked RedisCluster instead", "Redis"))
	assert.True(t, WordBoundaryMatch("fix the auth/login bug", "auth/login"))
}
