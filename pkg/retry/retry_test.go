package retry

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_NoStrategies(t *testing.T) {
	attempts := 0
	total, err := Retry(func() error {
		attempts++
		if attempts < 5 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
}

func TestRetry_Limit(t *testing.T) {
	expected := errors.New("persistent")

	attempts := 0
	total, err := Retry(func() error {
		attempts++
		return expected
	}, Limit(3))

	assert.Equal(t, expected, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, 3, attempts)
}

func TestRetry_NonRetriableErrors(t *testing.T) {
	fatal := errors.New("fatal")

	attempts := 0
	_, err := Retry(func() error {
		attempts++
		return fatal
	}, Limit(10), NonRetriableErrors(fatal))

	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, attempts)
}
