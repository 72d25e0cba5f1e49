package env

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metatime-io/vesting-server/pkg/config"
)

func TestConfigDoesntExist(t *testing.T) {
	const env = "ENV_CONFIG_TEST_VAR"
	os.Setenv(env, "default")

	v, err := NewConfig(env).Get(context.Background())
	assert.Equal(t, []byte("default"), v)
	assert.Nil(t, err)

	os.Unsetenv(env)

	v, err = NewConfig(env).Get(context.Background())
	assert.Nil(t, v)
	assert.Equal(t, config.ErrNoValue, err)
}

func TestTypedConfigs(t *testing.T) {
	const env = "ENV_CONFIG_TEST_TYPED_VAR"
	ctx := context.Background()

	os.Setenv(env, "250")
	u, err := NewUint64Config(env, 1).GetSafe(ctx)
	assert.Nil(t, err)
	assert.EqualValues(t, 250, u)

	os.Unsetenv(env)
	u, err = NewUint64Config(env, 1).GetSafe(ctx)
	assert.Nil(t, err)
	assert.EqualValues(t, 1, u)
}
