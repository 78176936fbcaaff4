// Package run contains the event multiplexer that drives a cell-grid
// application on a native window.
//
// A Loop owns one goroutine and cycles through idle, polling and
// dispatching phases. Each polling pass drains the window feed,
// collects due redraw and blink ticks, then polls every registered
// source in registration order; the result is one batch, dispatched
// event by event to the App. Handlers answer with a Control; Changed
// coalesces into the next frame, Emit feeds follow-up events into the
// same dispatch phase, Quit terminates the loop.
//
// Configuration goes through Builder, which validates eagerly and
// reports the first bad field. At runtime the App talks back through
// Context: reads are immediate, mutations are staged and applied at
// the start of the next dispatch phase.
package run
