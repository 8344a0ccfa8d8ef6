/*
Package events provides an in-memory event broker for reconciliation runs.

The reconciler publishes one event per step of a run (plan computed, each
action applied, a failed action, run completed or failed). Subscribers
receive them on buffered channels; the CLI uses a subscriber to log run
progress and to collect the applied actions it stores in the run history.

# Architecture

	Reconciler ──Publish──► eventCh (buffer: 100)
	                            │
	                      broadcast loop
	                            │
	               ┌────────────┴────────────┐
	               ▼                         ▼
	        Subscriber (50)           Subscriber (50)

Publishing never blocks on a slow subscriber: a full subscriber buffer
drops the event for that subscriber only. A run produces a handful of
events, well under the buffer sizes.

# Shutdown

Stop delivers every queued event, then closes all subscriber channels, so
a subscriber can simply range over its channel:

	broker := events.NewBroker()
	broker.Start()
	sub := broker.Subscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sub {
			fmt.Println(ev.Type, ev.Message)
		}
	}()

	// ... run the reconciler with the broker ...

	broker.Stop()
	<-done

Publishing on a nil *Broker is a no-op, so components accept an optional
broker without nil checks at every call site.
*/
package events
