// ABOUTME: Game screens for the toddler music toy
// ABOUTME: Turns pointer input into engine playback calls and particle bursts

// Package toy holds the game screens. Screens never own the audio engine;
// they receive it through the Audio interface and report visual feedback
// through a Burster. Time is passed in explicitly so screens stay
// deterministic under test.
package toy
