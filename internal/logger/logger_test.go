package logger

import (
	"testing"

	"github.com/pageza/foodgram/backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, env := range []config.Environment{config.Development, config.Production} {
		l, err := New(env)
		require.NoError(t, err)
		assert.NotNil(t, l)
		l.Infow("logger ready", "env", env)
	}
}
