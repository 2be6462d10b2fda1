package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cbenchf/internal/launcher"
	"cbenchf/internal/runtime"
	"cbenchf/pkg/settings"
)

func TestNewFactory_Defaults(t *testing.T) {
	s := settings.Default()
	factory := NewFactory(&s)

	assert.Same(t, &s, factory.Settings())
	assert.NotNil(t, factory.identity)
	assert.IsType(t, &runtime.ExecRunner{}, factory.runner)
	assert.NotNil(t, factory.newPinger)
}

func TestFactory_Checker(t *testing.T) {
	s := settings.Default()
	s.SocketPath = "/run/user/1000/docker.sock"

	checker := NewFactory(&s).Checker()
	assert.Equal(t, "/run/user/1000/docker.sock", checker.SocketPath())
}

func TestFactory_Launcher(t *testing.T) {
	s := settings.Default()

	var runner launcher.Runner = NewFactory(&s, WithErrorStream(&bytes.Buffer{})).Launcher()
	assert.IsType(t, &launcher.Launcher{}, runner)
}

func TestFactory_DaemonPinger(t *testing.T) {
	s := settings.Default()
	s.SocketPath = "/nonexistent/docker.sock"

	pinger, err := NewFactory(&s).DaemonPinger()
	require.NoError(t, err)
	defer pinger.Close()

	assert.IsType(t, &runtime.DaemonProbe{}, pinger)
}
