package dispatch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

func basePlan(platform appflow.Platform, display string, target Target) *Plan {
	return &Plan{
		App:             appflow.App{ID: "abc123", Name: "Demo"},
		Commit:          appflow.Commit{ID: 99, SHA: "0123456789abcdef", ShortSHA: "0123456", Note: "Fix login"},
		Platform:        platform,
		DisplayPlatform: display,
		Stack:           appflow.Stack{ID: 4, FriendlyName: "macOS - 2023.04"},
		Target:          target,
	}
}

func TestPlan_SummaryNative(t *testing.T) {
	p := basePlan(appflow.PlatformIOS, "iOS", NativeBuild{
		BuildType:   &appflow.BuildType{Name: appflow.BuildTypeAdHoc, FriendlyName: "Ad Hoc"},
		Certificate: &appflow.Certificate{Name: "Dist Cert", Tag: "dist"},
	})
	p.Environment = &appflow.Environment{ID: 3, Name: "staging"}

	want := "\n" +
		"  App:           Demo(abc123)\n" +
		"  Commit:        0123456 - Fix login\n" +
		"  Platform:      iOS\n" +
		"  Build Stack:   macOS - 2023.04\n" +
		"  Environment:   staging\n" +
		"  Build Type:    Ad Hoc\n" +
		"  Certificate:   Dist Cert\n" +
		"  Native Config: None\n"
	assert.Equal(t, want, p.Summary())
}

func TestPlan_SummaryWeb(t *testing.T) {
	p := basePlan(appflow.PlatformWeb, "Web", WebDeploy{
		Channels:   []appflow.Channel{{ID: "c1", Name: "Production"}, {ID: "c2", Name: "Beta"}},
		WebPreview: true,
	})

	want := "\n" +
		"  App:           Demo(abc123)\n" +
		"  Commit:        0123456 - Fix login\n" +
		"  Platform:      Web\n" +
		"  Build Stack:   macOS - 2023.04\n" +
		"  Environment:   None\n" +
		"  Web Preview:   YES\n" +
		"  Channels:      Production, Beta\n"
	assert.Equal(t, want, p.Summary())
}

func TestPlan_Validate(t *testing.T) {
	two := []appflow.DistributionCredential{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	err := basePlan(appflow.PlatformAndroid, "Android", NativeBuild{Destinations: two}).Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.EqualError(t, err, "Multiple destinations for Android currently unsupported.")

	assert.NoError(t, basePlan(appflow.PlatformAndroid, "Android", NativeBuild{Destinations: two[:1]}).Validate())
	assert.NoError(t, basePlan(appflow.PlatformWeb, "Web", WebDeploy{}).Validate())
	assert.Error(t, basePlan(appflow.PlatformWeb, "Web", NativeBuild{}).Validate())
	assert.Error(t, basePlan(appflow.PlatformIOS, "iOS", WebDeploy{}).Validate())
	assert.Error(t, basePlan(appflow.PlatformIOS, "iOS", nil).Validate())
}

func TestPlan_RequestNative(t *testing.T) {
	p := basePlan(appflow.PlatformIOS, "iOS", NativeBuild{
		BuildType:    &appflow.BuildType{Name: appflow.BuildTypeAppStore},
		Certificate:  &appflow.Certificate{Name: "Dist", Tag: "dist-tag"},
		NativeConfig: &appflow.NativeConfig{ID: 12, Name: "default"},
		Destinations: []appflow.DistributionCredential{{ID: 31, Name: "TestFlight"}},
	})
	p.Environment = &appflow.Environment{ID: 3}

	endpoint, body := p.Request()
	assert.Equal(t, "/apps/abc123/packages/", endpoint)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"commit_id": 99,
		"stack_id": 4,
		"environment_id": 3,
		"native_config_id": 12,
		"profile_tag": "dist-tag",
		"build_type": "app-store",
		"distribution_credential_id": 31,
		"platform": "ios"
	}`, string(raw))
}

func TestPlan_RequestWebOmitsUnsetFields(t *testing.T) {
	endpoint, body := basePlan(appflow.PlatformWeb, "Web", WebDeploy{}).Request()
	assert.Equal(t, "/apps/abc123/deploys/", endpoint)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"commit_id": 99, "stack_id": 4, "platform": "web-deploy", "web_preview": false}`, string(raw))
}
