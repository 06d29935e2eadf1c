package runner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/payload"
)

const helpText = `Commands:
  drop <item> <zone>   place a bank item in a zone
  add <tile>           append a tile to the sentence
  remove <tile>        return a tile to the bank
  check                verify the sentence
  reset                start the problem again
  next                 go to the next problem
  mute                 toggle sound
  view                 show the board
  help                 show this help
  quit                 leave
Items, tiles and zones accept an ID or the number shown on the board.`

var rejectionText = map[domain.Rejection]string{
	domain.RejectMalformed:   "That move could not be read.",
	domain.RejectStale:       "That item is no longer there.",
	domain.RejectOccupied:    "That zone is already taken.",
	domain.RejectUnknownZone: "There is no such zone here.",
	domain.RejectIllegalMove: "That move is not allowed.",
}

// Execute runs one command line. It returns ErrQuit when the learner leaves.
func (r *Runner) Execute(ctx context.Context, input string) error {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	snap := r.session.Snapshot()

	switch cmd {
	case "quit", "exit", "q":
		return ErrQuit
	case "help", "?":
		r.say("%s", helpText)
	case "view", "v":
		r.render(snap)
	case "mute":
		if r.mute == nil {
			r.say("Sound is not available.")
			return nil
		}
		if r.mute.Toggle() {
			r.say("Sound off.")
		} else {
			r.say("Sound on.")
		}
	case "reset":
		r.restarted = true
		r.session.Reset(ctx)
		r.render(r.session.Snapshot())
	case "next", "n":
		r.restarted = true
		r.session.Next(ctx)
		r.render(r.session.Snapshot())
	case "check", "c":
		res := r.session.Check(ctx)
		if !res.Performed {
			if snap.Layout == domain.LayoutSequence {
				r.say("Build a sentence first.")
			} else {
				r.say("Answers are checked as you place them.")
			}
			return nil
		}
		r.render(r.session.Snapshot())
	case "drop", "d":
		if len(args) != 2 {
			r.say("Usage: drop <item> <zone>")
			return nil
		}
		if snap.Layout == domain.LayoutSequence {
			r.say("Use add and remove to build the sentence.")
			return nil
		}
		item, ok := resolveItem(snap.Bank, args[0])
		if !ok {
			r.say("No item %q in the bank.", args[0])
			return nil
		}
		zone, ok := resolveZone(snap, args[1])
		if !ok {
			r.say("No zone %q.", args[1])
			return nil
		}
		return r.move(ctx, item, domain.InZone(zone))
	case "add", "a":
		if len(args) != 1 {
			r.say("Usage: add <tile>")
			return nil
		}
		item, ok := resolveItem(snap.Bank, args[0])
		if !ok {
			r.say("No tile %q in the bank.", args[0])
			return nil
		}
		return r.move(ctx, item, domain.Sequence())
	case "remove", "rm":
		if len(args) != 1 {
			r.say("Usage: remove <tile>")
			return nil
		}
		item, ok := resolveItem(snap.Sequence, args[0])
		if !ok {
			r.say("No tile %q in the sentence.", args[0])
			return nil
		}
		return r.move(ctx, item, domain.Bank())
	default:
		r.say("Unknown command %q. Type help for the list.", cmd)
	}
	return nil
}

// move performs a full drag gesture, sending the envelope through its wire encoding.
func (r *Runner) move(ctx context.Context, item domain.ItemID, target domain.Location) error {
	env, ok := r.session.Drag(ctx, item)
	if !ok {
		r.say("%s", rejectionText[domain.RejectStale])
		return nil
	}
	raw, err := payload.Encode(env)
	if err != nil {
		return fmt.Errorf("failed to encode drag payload: %w", err)
	}

	res := r.session.DropRaw(ctx, raw, target)
	if !res.Accepted {
		msg, ok := rejectionText[res.Rejection]
		if !ok {
			msg = "That move was ignored."
		}
		r.logger.Debug("drop rejected", "item", item, "target", target.String(), "reason", res.Rejection)
		r.say("%s", msg)
		return nil
	}

	r.render(r.session.Snapshot())
	return nil
}

// resolveItem finds an item by ID or by its 1-based position in items.
func resolveItem(items []domain.Item, ref string) (domain.ItemID, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(items) {
			return items[n-1].ID, true
		}
		return "", false
	}
	for _, it := range items {
		if string(it.ID) == ref {
			return it.ID, true
		}
	}
	return "", false
}

// resolveZone finds a zone by ID or by its 1-based position on the board.
func resolveZone(snap domain.Snapshot, ref string) (domain.ZoneID, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(snap.Zones) {
			return snap.Zones[n-1].Zone.ID, true
		}
		return "", false
	}
	if _, ok := snap.Zone(domain.ZoneID(ref)); ok {
		return domain.ZoneID(ref), true
	}
	return "", false
}
