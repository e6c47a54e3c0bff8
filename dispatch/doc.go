// Package dispatch routes submitted values into the operator pipeline that
// is selected at the moment each value arrives, and reports every value
// that survives a pipeline.
//
// The data flow is:
//
//	SubmitValue -> event source -> Router.Gate(name) per catalog entry
//	            -> Runner.Run(gated, descriptor) -> Reporter -> Sink
//
// Selection is read per event, never cached, so a selection change takes
// effect on the next submitted value. Gates partition events: each value
// reaches at most one pipeline. The Reporter labels a record with the
// selection current at report time, which may differ from the pipeline that
// produced a late value; the record also carries that pipeline's name.
//
// All stream work happens on one scheduler.Scheduler timeline. Engine
// methods return once the synchronous part of the work has run; timed
// operators resume later on the same timeline.
package dispatch
