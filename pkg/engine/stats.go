// ABOUTME: Engine counters for diagnostics
// ABOUTME: Counts lifecycle outcomes and source activity regardless of observers
package engine

import "sync/atomic"

// Stats is a snapshot of engine counters
type Stats struct {
	ContextsCreated int64 `json:"contexts_created"`
	OpenFailures    int64 `json:"open_failures"`
	Unlocks         int64 `json:"unlocks"`
	Resumes         int64 `json:"resumes"`
	Suspends        int64 `json:"suspends"`
	ResumeFailures  int64 `json:"resume_failures"`
	ResumeTimeouts  int64 `json:"resume_timeouts"`
	SuspendFailures int64 `json:"suspend_failures"`
	SuspendTimeouts int64 `json:"suspend_timeouts"`
	ConfirmTones    int64 `json:"confirm_tones"`
	BypassPlays     int64 `json:"bypass_plays"`
	BypassFailures  int64 `json:"bypass_failures"`
	TonesPlayed     int64 `json:"tones_played"`
	TonesSkipped    int64 `json:"tones_skipped"`
	FilesPlayed     int64 `json:"files_played"`
	FileFailures    int64 `json:"file_failures"`
	AmbientCreated  int64 `json:"ambient_created"`
	AmbientRemoved  int64 `json:"ambient_removed"`

	// Live gauges
	ActiveSources int `json:"active_sources"`
	Ambient       int `json:"ambient"`
}

type counters struct {
	contextsCreated atomic.Int64
	openFailures    atomic.Int64
	unlocks         atomic.Int64
	resumes         atomic.Int64
	suspends        atomic.Int64
	resumeFailures  atomic.Int64
	resumeTimeouts  atomic.Int64
	suspendFailures atomic.Int64
	suspendTimeouts atomic.Int64
	confirmTones    atomic.Int64
	bypassPlays     atomic.Int64
	bypassFailures  atomic.Int64
	tonesPlayed     atomic.Int64
	tonesSkipped    atomic.Int64
	filesPlayed     atomic.Int64
	fileFailures    atomic.Int64
	ambientCreated  atomic.Int64
	ambientRemoved  atomic.Int64
}

// Stats returns a snapshot of the engine counters
func (e *Engine) Stats() Stats {
	s := Stats{
		ContextsCreated: e.stats.contextsCreated.Load(),
		OpenFailures:    e.stats.openFailures.Load(),
		Unlocks:         e.stats.unlocks.Load(),
		Resumes:         e.stats.resumes.Load(),
		Suspends:        e.stats.suspends.Load(),
		ResumeFailures:  e.stats.resumeFailures.Load(),
		ResumeTimeouts:  e.stats.resumeTimeouts.Load(),
		SuspendFailures: e.stats.suspendFailures.Load(),
		SuspendTimeouts: e.stats.suspendTimeouts.Load(),
		ConfirmTones:    e.stats.confirmTones.Load(),
		BypassPlays:     e.stats.bypassPlays.Load(),
		BypassFailures:  e.stats.bypassFailures.Load(),
		TonesPlayed:     e.stats.tonesPlayed.Load(),
		TonesSkipped:    e.stats.tonesSkipped.Load(),
		FilesPlayed:     e.stats.filesPlayed.Load(),
		FileFailures:    e.stats.fileFailures.Load(),
		AmbientCreated:  e.stats.ambientCreated.Load(),
		AmbientRemoved:  e.stats.ambientRemoved.Load(),
		Ambient:         e.AmbientCount(),
	}
	if oc, ok := e.current(); ok {
		s.ActiveSources = oc.mixer.VoiceCount()
	}
	return s
}
