// Package model hosts simulated objects through their lifecycle.
//
// A [Model] moves through three states:
//
//	Uninitialized --Setup--> Active --Teardown--> TornDown
//
// Setup resolves the model's blueprint into bodies inside a world, sets up
// child components and then notifies observers. Every Step notifies
// observers first and only then advances the owned bodies and children, so
// controllers act on the state of the frame they are about to advance.
// Teardown notifies observers before releasing anything.
//
// Observers are referenced, not owned. Callers must Detach an observer
// before discarding it. Attach and Detach may be called from inside an
// observer callback; such changes take effect once the current
// notification pass is over.
//
// # Thread Safety
//
// A Model is NOT safe for concurrent use. All calls are expected on the
// simulation goroutine.
package model
