/*
Package runner implements the interactive terminal loop for a tutoring session.

Each line typed by the learner is a command. Moves go through the same drag payload
protocol a graphical host would use: the item is dragged, its envelope is encoded,
then decoded and dropped on the target. Incorrect placements that return to the bank
after their delay are announced as they happen, between commands.

# Commands

	drop <item> <zone>   place a bank item in a zone (items and zones by ID or number)
	add <tile>           append a tile to the sentence being built
	remove <tile>        return a tile from the sentence to the bank
	check                verify the built sentence
	reset                start the current problem again
	next                 move to the next problem
	mute                 toggle sound cues
	view                 show the board again
	help                 list commands
	quit                 leave

# Usage

	r := runner.NewRunner(session,
		runner.WithIO(os.Stdin, os.Stdout),
		runner.WithRenderer(render),
		runner.WithMute(player.Mute()),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
