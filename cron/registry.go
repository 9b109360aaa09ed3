package cron

import (
	"context"
	"sync"

	"sareeadmin.GO/config"
	"sareeadmin.GO/core/app"
	"sareeadmin.GO/core/registry"
)

// JobFunc runs one job. args come from `cron:start -j name args...`.
type JobFunc func(ctx context.Context, a *app.App, args ...string) error

// ScheduleFunc picks a job's cron spec from configuration loaded at start time.
type ScheduleFunc func(cfg *config.Config) string

// Job holds schedule and run function.
type Job struct {
	Schedule ScheduleFunc
	Run      JobFunc
}

// Fixed returns a ScheduleFunc that ignores configuration.
func Fixed(spec string) ScheduleFunc {
	return func(*config.Config) string { return spec }
}

var mu sync.Mutex

// Register adds a cron job. Call from init() in job packages. Panics if registry is locked.
func Register(name string, schedule ScheduleFunc, run JobFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		panic("cron/registry: locked (register only during init before StartCron)")
	}
	jobs := getJobs()
	if _, ok := jobs[name]; ok {
		panic("cron/registry: duplicate job " + name)
	}
	jobs[name] = Job{Schedule: schedule, Run: run}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Unregister removes a job (for tests).
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	jobs := getJobs()
	delete(jobs, name)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

func getJobs() map[string]Job {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCron); ok && v != nil {
		return v.(map[string]Job)
	}
	return make(map[string]Job)
}

// Jobs returns all registered jobs.
// Locks the cron registry on first call (immutable after). Read-only after init, so no lock on read.
func Jobs() map[string]Job {
	out := make(map[string]Job)
	for k, v := range getJobs() {
		out[k] = v
	}
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	}
	return out
}
