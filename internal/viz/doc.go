// Package viz renders runs in the terminal.
//
// Scenes are drawn from above on a Braille [Canvas]: world x runs left to
// right and world z bottom to top, so the crater shows as its four crossed
// slabs. [BodyTable], [MetricsTable] and [HeightChart] summarise stored runs
// with lipgloss and asciigraph, and [Live] is a Bubble Tea model that steps
// a simulation one frame per tick.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single frame while paused
//	?     - Show help
//	Q     - Quit
package viz
