package logging_test

import (
	"github.com/grovetools/meetwatch/logging"
	"github.com/sirupsen/logrus"
)

func ExampleNewLogger() {
	log := logging.NewLogger("tracker")

	log.Debug("Classified line")
	log.Info("Joined channel")

	log.WithFields(logrus.Fields{
		"question": 2,
		"tracked":  3,
		"reported": 4,
	}).Warn("Supporter count differs from agent report")
}

func ExampleNewLogger_configuration() {
	// Configuration via meetwatch.yml:
	//
	// logging:
	//   level: debug
	//   report_caller: true
	//   file:
	//     path: ~/.local/state/meetwatch/meetwatch.log
	//   format:
	//     preset: json
	//
	// Or via environment variables:
	// MEETWATCH_LOG_LEVEL=debug
	// MEETWATCH_LOG_CALLER=true

	log := logging.NewLogger("configured")
	log.Info("This will respect the configuration")
}
