package schedule

import (
	"os"
	"testing"

	"go.uber.org/zap"

	"HabitPulse/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}
