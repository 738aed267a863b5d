// Package codetiming measures elapsed time with a small timer that can
// be driven explicitly, run a timed block, or wrap a unit of work.
//
// As an explicit object:
//
//	t := codetiming.NewNamedTimer("download")
//	if err := t.Start(); err != nil { ... }
//	// do something
//	elapsed, err := t.Stop()
//
// As a timed block:
//
//	err := codetiming.NewNamedTimer("download").Time(func() {
//		// do something
//	})
//
// As a wrapped unit of work:
//
//	download := codetiming.NewNamedTimer("download").Wrap(func() error {
//		// do something
//		return nil
//	})
//	err := download()
//
// Every completed measurement of a named timer accumulates in a
// Registry (DefaultRegistry unless overridden), which answers aggregate
// queries such as Count, Total, Mean, Median and Stdev per name. After
// each Stop the timer renders a report from its text template, or from
// a TextFunc, and emits it through its Logger.
package codetiming
