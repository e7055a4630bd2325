package browser

import (
	"fmt"

	"pageprism/domain/interfaces"
	"pageprism/infrastructure/config"

	"github.com/sirupsen/logrus"
)

// NewController - starts the driver named by cfg.Driver
func NewController(cfg *config.Config, logger *logrus.Logger) (interfaces.Driver, error) {
	logger.WithField("driver", cfg.Driver).Info("Starting browser")
	switch cfg.Driver {
	case config.DriverSelenium:
		return NewSeleniumController(cfg, logger)
	case config.DriverPlaywright:
		return NewPlaywrightController(cfg, logger)
	case config.DriverRod:
		return NewRodController(cfg, logger)
	}
	return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}
