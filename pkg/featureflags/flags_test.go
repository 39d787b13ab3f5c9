package featureflags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvManager_DefaultsWhenUnset(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, StrictFragment))
	assert.True(t, manager.IsEnabled(ctx, FeedExcerpts))
	assert.False(t, manager.IsEnabled(ctx, "unknown_flag"))
}

func TestEnvManager_DisabledWhenFlagSetFalse(t *testing.T) {
	t.Setenv("TEST_FEATURE_FEED_EXCERPTS", "false")

	manager := NewEnvManager("TEST_FEATURE_")

	assert.False(t, manager.IsEnabled(context.Background(), FeedExcerpts))
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"TRUE uppercase", "TRUE", true},
		{"1 numeric", "1", true},
		{"enabled", "enabled", true},
		{"ENABLED", "ENABLED", true},
		{"false", "false", false},
		{"0", "0", false},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLAG", tt.value)

			manager := NewEnvManager("TEST_")

			assert.Equal(t, tt.expected, manager.IsEnabled(context.Background(), "FLAG"))
		})
	}
}

func TestEnvManager_OverrideTakesPrecedence(t *testing.T) {
	t.Setenv("TEST_FEATURE_STRICT_FRAGMENT", "true")

	manager := NewEnvManager("TEST_FEATURE_")
	manager.SetEnabled(StrictFragment, false)

	assert.False(t, manager.IsEnabled(context.Background(), StrictFragment))
}

func TestEnvManager_GetAllFlags(t *testing.T) {
	t.Setenv("TEST_FEATURE_FEED_EXCERPTS", "0")

	manager := NewEnvManager("TEST_FEATURE_")
	flags := manager.GetAllFlags()

	assert.Equal(t, map[FeatureFlag]bool{
		StrictFragment: true,
		FeedExcerpts:   false,
	}, flags)
}

func TestStaticManager(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{FeedExcerpts: true})
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, FeedExcerpts))
	assert.False(t, manager.IsEnabled(ctx, StrictFragment))

	manager.SetEnabled(StrictFragment, true)
	assert.True(t, manager.IsEnabled(ctx, StrictFragment))

	all := manager.GetAllFlags()
	all[FeedExcerpts] = false
	assert.True(t, manager.IsEnabled(ctx, FeedExcerpts), "GetAllFlags must return a copy")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	// Without a manager the defaults apply
	assert.True(t, IsEnabled(ctx, StrictFragment))

	ctx = WithManager(ctx, NewStaticManager(map[FeatureFlag]bool{StrictFragment: false}))
	assert.False(t, IsEnabled(ctx, StrictFragment))
	assert.False(t, IsEnabled(ctx, FeedExcerpts))
}
