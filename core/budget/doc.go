// Package budget implements the wall-clock time budget used to truncate long
// running batch work gracefully.
//
// A Budget is created at the start of a bounded operation and queried
// between sub-batches. It never suspends and performs no I/O; callers decide
// what to do once it is exceeded (stop deleting, skip a phase, report
// truncation).
//
// # Usage
//
//	b := budget.New(clock.System{}, 25*time.Second)
//	for _, chunk := range chunks {
//	    if b.Exceeded() {
//	        truncated = true
//	        break
//	    }
//	    process(chunk)
//	}
package budget
