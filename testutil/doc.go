// Package testutil provides test infrastructure for opgate components.
//
// Components started through T(t).Setup are stopped automatically, in
// reverse order, when the test ends:
//
//	func TestFeature(t *testing.T) {
//	    rec := testutil.NewRecorder()
//	    clock := scheduler.NewVirtual(epoch)
//	    eng := testutil.NewEngine(t, clock, rec, "map")
//	    ...
//	}
//
// Recorder is a dispatch.Sink that also implements TestComponent, so its
// captured records can be reset, snapshotted and restored between cases.
package testutil
