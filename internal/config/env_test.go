package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnvVar(t *testing.T) {
	t.Setenv("EMAILCRAFT_RESOLVE_TEST", "resolved")

	assert.Equal(t, "resolved", ResolveEnvVar("os.environ/EMAILCRAFT_RESOLVE_TEST"))
	assert.Equal(t, "plain-value", ResolveEnvVar("plain-value"))
	assert.Equal(t, "", ResolveEnvVar("os.environ/EMAILCRAFT_DOES_NOT_EXIST"))
	assert.Equal(t, "", ResolveEnvVar(""))
}
