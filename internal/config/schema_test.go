package config

import (
	"errors"
	"testing"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("accepts a full document", func(t *testing.T) {
		err := validate([]byte(`
project:
  root: src
  ignore: [generated]
pull:
  source_kinds: all
  transitive_overrides: true
concurrency: 4
storage:
  path: runs.db
`))
		assert.NoError(t, err)
	})

	t.Run("reports unknown keys as validation errors", func(t *testing.T) {
		err := validate([]byte("project:\n  roots: src\n"))
		require.Error(t, err)
		var ve *jsonschema.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("non-integer concurrency", func(t *testing.T) {
		assert.Error(t, validate([]byte("concurrency: 1.5\n")))
	})
}
