package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfUpdate_RefusesDevelopmentBuilds(t *testing.T) {
	originalVersion := rootCmd.Version
	defer SetVersion(originalVersion)

	for _, v := range []string{"", "dev"} {
		SetVersion(v)
		err := runSelfUpdate(nil, nil)
		require.Error(t, err, "version %q", v)
		assert.Contains(t, err.Error(), "cannot self-update a development version")
	}
}

func TestSelfUpdate_Command(t *testing.T) {
	c := newSelfUpdateCmd()
	assert.Equal(t, "self-update", c.Use)
	assert.NotNil(t, c.RunE)
	assert.Error(t, c.Args(c, []string{"extra"}))
}
