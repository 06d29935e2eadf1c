package domain

// Cue is an audio feedback kind.
type Cue string

const (
	CueCorrect   Cue = "correct"
	CueIncorrect Cue = "incorrect"
	CueDrag      Cue = "drag"
	CueDrop      Cue = "drop"
)

// OutcomeCue maps a verification result to its cue.
func OutcomeCue(correct bool) Cue {
	if correct {
		return CueCorrect
	}
	return CueIncorrect
}
