package interfaces

// SchedulerInterface owns the background housekeeping of the key-value
// store: TTL eviction, idle client cleanup and snapshots.
type SchedulerInterface interface {
	// Restore loads the last snapshot, if persistence is enabled.
	Restore() error
	// Sweep evicts expired uploads, conversions and usage records once and
	// updates the stored key gauge.
	Sweep()
	Init()
	Stop()
	// Persist writes a final snapshot, if persistence is enabled.
	Persist() error
}
