package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadEnvInt(t *testing.T) {
	value := 10
	t.Setenv("POSTBOARD_TEST_INT", "25")
	readEnvInt("POSTBOARD_TEST_INT", &value)
	assert.Equal(t, 25, value)

	t.Setenv("POSTBOARD_TEST_INT", "abc")
	readEnvInt("POSTBOARD_TEST_INT", &value)
	assert.Equal(t, 25, value, "invalid values are ignored")
}

func TestReadEnvBool(t *testing.T) {
	value := true
	t.Setenv("POSTBOARD_TEST_BOOL", "off")
	readEnvBool("POSTBOARD_TEST_BOOL", &value)
	assert.False(t, value)

	t.Setenv("POSTBOARD_TEST_BOOL", "maybe")
	readEnvBool("POSTBOARD_TEST_BOOL", &value)
	assert.False(t, value)
}

func TestIsAdminUsername(t *testing.T) {
	old := ADMIN_USERNAMES
	defer func() { ADMIN_USERNAMES = old }()

	ADMIN_USERNAMES = "root, editor"
	assert.True(t, IsAdminUsername("root"))
	assert.True(t, IsAdminUsername("editor"))
	assert.False(t, IsAdminUsername("guest"))
	assert.False(t, IsAdminUsername(""))
}
