package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()
	require.NotNil(t, root)
	assert.Equal(t, "cloudicons", root.Use)

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "build")
	assert.Contains(t, names, "version")
}

func TestBuildCmdFlags(t *testing.T) {
	assert.NotNil(t, buildCmd.Flags().Lookup("config"))
	assert.NotNil(t, buildCmd.Flags().Lookup("source-dir"))
	assert.NotNil(t, buildCmd.Flags().Lookup("dist-dir"))
	assert.NotNil(t, buildCmd.Flags().Lookup("provider"))
}
