// Package analysis looks at recorded traces in the frequency domain.
//
// A probe settling in a crater bounces at a rate set by gravity, the drop
// height and restitution; [DominantFrequency] recovers that rate from the
// height trace:
//
//	f, _ := analysis.DominantFrequency(heights, dt)
//	fmt.Printf("bounce period %.2fs\n", 1/f)
package analysis
