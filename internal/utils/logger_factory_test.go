package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ghfolio/ghfolio/internal/utils"
)

func TestLoggerFactoryCreateLogger(t *testing.T) {
	testCases := []struct {
		name          string
		logLevel      utils.LogLevel
		logFormat     utils.LogFormat
		expectFailure bool
	}{
		{name: "debug structured", logLevel: utils.LogLevelDebug, logFormat: utils.LogFormatStructured},
		{name: "info console", logLevel: utils.LogLevelInfo, logFormat: utils.LogFormatConsole},
		{name: "warn structured", logLevel: utils.LogLevelWarn, logFormat: utils.LogFormatStructured},
		{name: "error console", logLevel: utils.LogLevelError, logFormat: utils.LogFormatConsole},
		{name: "unknown level", logLevel: utils.LogLevel("verbose"), logFormat: utils.LogFormatConsole, expectFailure: true},
		{name: "unknown format", logLevel: utils.LogLevelInfo, logFormat: utils.LogFormat("plain"), expectFailure: true},
	}

	factory := utils.NewLoggerFactory()

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			logger, creationError := factory.CreateLogger(testCase.logLevel, testCase.logFormat)
			if testCase.expectFailure {
				require.Error(t, creationError)
				require.Nil(t, logger)
				return
			}
			require.NoError(t, creationError)
			require.NotNil(t, logger)
		})
	}
}

func TestLoggerFactoryHonorsRequestedLevel(t *testing.T) {
	factory := utils.NewLoggerFactory()

	logger, creationError := factory.CreateLogger(utils.LogLevelWarn, utils.LogFormatStructured)
	require.NoError(t, creationError)

	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}
