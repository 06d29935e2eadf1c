// Package process plays sound cues by running local commands.
//
// Only cues listed in the allow-list run anything. A cues.yaml file maps cues to commands:
//
//	cues:
//	  - cue: correct
//	    command: paplay
//	    args: ["/usr/share/sounds/freedesktop/stereo/complete.oga"]
//	  - cue: incorrect
//	    command: paplay
//	    args: ["/usr/share/sounds/freedesktop/stereo/dialog-warning.oga"]
package process
