// Package viz drives the experiment loop and optionally shows it.
//
// A visualization owns the main loop: [Visualization.Execute] calls
// UpdateSpace on its [Runner] until the experiment is finished. Three are
// provided:
//
//   - [Default]: no output, optionally paced to wall-clock time
//   - [Text]: periodic status lines and a tick-duration chart at the end
//   - [TUI]: a Bubble Tea view of the arena drawn on a Braille [Canvas]
//
// # Key Bindings (tui)
//
//	Space - Pause/Resume
//	S     - Single step while paused
//	Q     - Terminate the experiment
package viz
