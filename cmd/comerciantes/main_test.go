package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Arekyus/Sistema-comerciantes/internal/app"
	_ "github.com/Arekyus/Sistema-comerciantes/internal/testing/guard"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	// The guard import forces COMERCIANTES_TEST_MODE on before main runs.
	app.RefreshTestMode()
	require.True(t, app.InTestMode())

	// Must return immediately instead of dialing Postgres or Redis.
	main()
}
