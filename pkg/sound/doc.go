/*
Package sound provides the audio capability used by Workshop sessions.

A Player implements ports.CueSink. It reads the shared Mute flag at the moment a
cue is played, hands the cue to a Backend on its own goroutine and logs backend
failures instead of returning them. A silent or broken audio device therefore
never affects the exercise.
*/
package sound
