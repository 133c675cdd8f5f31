package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManagerUnderTest(fx *fixture) ServiceManager {
	return NewServiceManager(fx.repo, fx.resolver, fx.validator, fx.publisher, fx.logger, ServiceManagerConfig{
		JWTSecret: testJWTSecret,
		TokenTTL:  time.Hour,
	})
}

func TestServiceManager_Lifecycle(t *testing.T) {
	fx := newFixture()
	manager := newManagerUnderTest(fx)
	ctx := context.Background()

	assert.Error(t, manager.HealthCheck(ctx))

	require.NoError(t, manager.Initialize(ctx))
	require.NoError(t, manager.HealthCheck(ctx))

	assert.NotNil(t, manager.Auth())
	assert.NotNil(t, manager.User())
	assert.NotNil(t, manager.Department())
	assert.NotNil(t, manager.Role())
	assert.NotNil(t, manager.Publication())
	assert.NotNil(t, manager.Award())
	assert.NotNil(t, manager.Recognition())
	assert.NotNil(t, manager.Event())
	assert.NotNil(t, manager.Report())

	// Initialize is idempotent.
	require.NoError(t, manager.Initialize(ctx))

	require.NoError(t, manager.Shutdown(ctx))
	assert.Error(t, manager.HealthCheck(ctx))
	require.NoError(t, manager.Shutdown(ctx))
}

func TestServiceManager_PanicsBeforeInitialize(t *testing.T) {
	fx := newFixture()
	manager := newManagerUnderTest(fx)

	assert.Panics(t, func() { manager.Auth() })
	assert.Panics(t, func() { manager.Publication() })
	assert.Panics(t, func() { manager.Report() })
}
