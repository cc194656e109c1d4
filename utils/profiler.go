package utils

import (
	Flag "github.com/Luismorlan/postmux/utils/flag"
	Logger "github.com/Luismorlan/postmux/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// StartProfiler starts the Datadog profiler. Call it once from main, tests
// must not profile.
func StartProfiler() {
	env := "development"
	if !Flag.IsDevelopment {
		env = "production"
	}

	if err := profiler.Start(
		profiler.WithService(Flag.ServiceName),
		profiler.WithEnv(env),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			// The profiles below are disabled by
			// default to keep overhead low, but
			// can be enabled as needed.
			// profiler.BlockProfile,
			// profiler.MutexProfile,
			// profiler.GoroutineProfile,
		),
	); err != nil {
		Logger.Log.Fatal(err)
	}
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	// Datadog profiler
	profiler.Stop()
}
