package appflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildState_IsTerminal(t *testing.T) {
	terminal := map[BuildState]bool{
		StateCreated:  false,
		StatePending:  false,
		StateRunning:  false,
		StateSuccess:  true,
		StateFailed:   true,
		StateCanceled: true,
	}
	for state, want := range terminal {
		assert.Equal(t, want, state.IsTerminal(), string(state))
	}
}

func TestPlatform_IsNative(t *testing.T) {
	assert.True(t, PlatformIOS.IsNative())
	assert.True(t, PlatformAndroid.IsNative())
	assert.False(t, PlatformWeb.IsNative())
}

func TestBuildTypeName_IsValid(t *testing.T) {
	for _, n := range BuildTypeNames {
		assert.True(t, n.IsValid())
	}
	assert.False(t, BuildTypeName("App Store").IsValid())
	assert.False(t, BuildTypeName("").IsValid())
}

func TestStack_BuildTypeList(t *testing.T) {
	s := Stack{BuildTypes: []BuildType{{Name: BuildTypeAdHoc}, {Name: BuildTypeAppStore}}}
	assert.Equal(t, "ad-hoc, app-store", s.BuildTypeList())
	assert.Empty(t, (&Stack{}).BuildTypeList())
}
