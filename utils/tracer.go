package utils

import (
	Flag "github.com/Luismorlan/postmux/utils/flag"
	Logger "github.com/Luismorlan/postmux/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// StartTracer starts the Datadog tracer. Call it once from main.
func StartTracer() {
	env := "development"
	if !Flag.IsDevelopment {
		env = "production"
	}

	tracer.Start(
		tracer.WithService(Flag.ServiceName),
		tracer.WithEnv(env),
	)

	Logger.Log.Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	// Datadog tracer
	tracer.Stop()
}
