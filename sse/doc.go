// Package sse streams dispatch log records to HTTP clients as
// Server-Sent Events.
//
// A Hub owns the connected clients and fans broadcast frames out to every
// client whose ID matches a glob pattern. RecordSink plugs the hub into the
// dispatcher as a dispatch.Sink, so every log record becomes a "record"
// event for clients on the records topic.
//
// # Usage
//
//	comp := sse.NewComponent("/api/logs")
//	registry.Register(comp)
//	engine, _ := dispatch.NewEngine(cat, loop, dispatch.WithSink(sse.NewRecordSink(comp.Hub())))
//	router.GET("/api/logs", func(c *gin.Context) {
//		sse.ServeSSE(comp.Hub(), c.Writer, c.Request, sse.RecordClientID())
//	})
package sse
