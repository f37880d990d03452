package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	name    string
	initErr error
	log     *[]string
}

func (s *stub) Name() string { return s.name }

func (s *stub) Initialize(HostAPI) error {
	*s.log = append(*s.log, "init:"+s.name)
	return s.initErr
}

func (s *stub) Shutdown() error {
	*s.log = append(*s.log, "stop:"+s.name)
	return nil
}

func TestLifecycleOrder(t *testing.T) {
	var log []string
	m := NewManager()
	require.NoError(t, m.Register(&stub{name: "b", log: &log}))
	require.NoError(t, m.Register(&stub{name: "a", log: &log, initErr: errors.New("boom")}))

	errs := m.InitializePlugins(NewFakeHost())
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "plugin a: boom")

	m.ShutdownPlugins()
	assert.Equal(t, []string{"init:b", "init:a", "stop:a", "stop:b"}, log)
	assert.Equal(t, []string{"a", "b"}, m.Names())

	_, ok := m.GetPlugin("b")
	assert.True(t, ok)
}

func TestRegisterErrors(t *testing.T) {
	var log []string
	m := NewManager()
	assert.Error(t, m.Register(&stub{log: &log}))
	require.NoError(t, m.Register(&stub{name: "x", log: &log}))
	assert.Error(t, m.Register(&stub{name: "x", log: &log}))
}
