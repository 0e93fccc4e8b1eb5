// Package recording captures a chain without a backend and replays it later.
//
// A Recorder hands out chains with the ports.Chain surface. Every step appends
// one Invocation to the recorder's log and returns a placeholder; nothing runs.
// Recorder.Recording seals the log, and Recording.Playback replays it in order
// against a live chain, so a recorded chain and the same chain run directly
// produce identical backend calls and identical errors.
package recording
