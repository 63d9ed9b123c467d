// ABOUTME: Audio lifecycle engine package
// ABOUTME: Owns one persistent output context and the sources layered on it
// Package engine keeps a single audio output context alive across
// background/foreground cycles and plays tones, sound files and ambient
// drones on it.
//
// The context is created lazily by the first Unlock, Resume or playback
// call and is only closed by Close. Suspend and Resume pause and restart
// it without losing the master gain, the filter or registered ambient
// sources. Lifecycle calls are safe to make redundantly, concurrently and
// out of order; platform calls that reject or hang are bounded by
// Config.ResumeTimeout and never surface errors to the caller.
//
// Example:
//
//	eng, err := engine.New(engine.Config{Backend: output.Oto{}})
//	eng.Unlock(ctx) // from a user gesture
//	eng.PlayTone(440, audio.Sine, 500*time.Millisecond)
//	h := eng.CreateAmbientTone(220, audio.Triangle, 0.05)
//	eng.FadeOutAmbientTone(h, 1500*time.Millisecond)
package engine
