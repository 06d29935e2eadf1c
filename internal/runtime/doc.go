/*
Package runtime implements the placement engine behind every Workshop exercise.

A single Session type serves all exercise shapes. Its behaviour is selected by
domain.Rules: single-slot or multi-slot zones verified on every drop (matching,
categorizing, connector selection), or an ordered build sequence verified by an
explicit check (sentence construction).

# Concurrency

Every public method runs to completion under the session mutex. Incorrect
placements are returned to the bank by timers obtained from a ports.Scheduler;
the timers are registered by placement ID and cancelled on Reset, Next and Close.
A timer that fires after its session moved on re-checks the session epoch and
does nothing.

Cues, lifecycle hooks and change listeners are invoked after the mutex is
released, in mutation order.
*/
package runtime
