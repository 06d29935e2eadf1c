package mcp

import (
	"context"
	"fmt"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/payload"
	"github.com/aretw0/workshop/pkg/ports"
	"github.com/aretw0/workshop/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
)

// ExerciseInfo describes an exercise without its answers.
type ExerciseInfo struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Layout      domain.Layout `json:"layout" jsonschema_description:"single_slot, multi_slot or sequence"`
	Problems    int           `json:"problems"`
}

// ExerciseList is the result of list_exercises.
type ExerciseList struct {
	Exercises []ExerciseInfo `json:"exercises"`
}

// SessionView is the board of a session.
type SessionView struct {
	SessionID string          `json:"session_id"`
	Board     string          `json:"board" jsonschema_description:"The board rendered as markdown"`
	Snapshot  domain.Snapshot `json:"snapshot" jsonschema_description:"The full projection of the session"`
}

// MoveResult is the result of a drop, add or remove.
type MoveResult struct {
	SessionView
	Accepted  bool             `json:"accepted"`
	Rejection domain.Rejection `json:"rejection,omitempty" jsonschema_description:"Why the move was ignored"`
	Outcome   domain.Outcome   `json:"outcome,omitempty"`
}

// CheckResult is the result of check_answer.
type CheckResult struct {
	SessionView
	Performed bool           `json:"performed"`
	Outcome   domain.Outcome `json:"outcome,omitempty"`
}

// Ended is the result of end_session.
type Ended struct {
	SessionID string `json:"session_id"`
	Closed    bool   `json:"closed"`
}

type startArgs struct {
	ExerciseID string `json:"exercise_id"`
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type dropArgs struct {
	SessionID string `json:"session_id"`
	Item      string `json:"item"`
	Zone      string `json:"zone"`
}

type tileArgs struct {
	SessionID string `json:"session_id"`
	Tile      string `json:"tile"`
}

func (s *Server) registerTools() {
	sessionID := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_session"))

	s.mcpServer.AddTool(mcp.NewTool("list_exercises",
		mcp.WithDescription("List the exercises in learning order."),
		mcp.WithOutputSchema[ExerciseList](),
	), mcp.NewStructuredToolHandler(s.handleListExercises))

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a session on an exercise and show its board."),
		mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise ID from list_exercises")),
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("view_session",
		mcp.WithDescription("Show the current board of a session."),
		sessionID,
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.mcpServer.AddTool(mcp.NewTool("drop_item",
		mcp.WithDescription("Drag an item from the bank and drop it on a zone. Correctness is decided immediately."),
		sessionID,
		mcp.WithString("item", mcp.Required(), mcp.Description("Item ID in the bank")),
		mcp.WithString("zone", mcp.Required(), mcp.Description("Target zone ID")),
		mcp.WithOutputSchema[MoveResult](),
	), mcp.NewStructuredToolHandler(s.handleDrop))

	s.mcpServer.AddTool(mcp.NewTool("add_tile",
		mcp.WithDescription("Append a tile from the bank to the sentence being built."),
		sessionID,
		mcp.WithString("tile", mcp.Required(), mcp.Description("Tile ID in the bank")),
		mcp.WithOutputSchema[MoveResult](),
	), mcp.NewStructuredToolHandler(s.handleAdd))

	s.mcpServer.AddTool(mcp.NewTool("remove_tile",
		mcp.WithDescription("Return a tile from the sentence to the bank."),
		sessionID,
		mcp.WithString("tile", mcp.Required(), mcp.Description("Tile ID in the sentence")),
		mcp.WithOutputSchema[MoveResult](),
	), mcp.NewStructuredToolHandler(s.handleRemove))

	s.mcpServer.AddTool(mcp.NewTool("check_answer",
		mcp.WithDescription("Verify the sentence built so far."),
		sessionID,
		mcp.WithOutputSchema[CheckResult](),
	), mcp.NewStructuredToolHandler(s.handleCheck))

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Start the current problem again."),
		sessionID,
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	s.mcpServer.AddTool(mcp.NewTool("next_problem",
		mcp.WithDescription("Move to the next problem, wrapping around after the last one."),
		sessionID,
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleNext))

	s.mcpServer.AddTool(mcp.NewTool("end_session",
		mcp.WithDescription("End a session."),
		sessionID,
		mcp.WithOutputSchema[Ended](),
	), mcp.NewStructuredToolHandler(s.handleEnd))
}

func (s *Server) handleListExercises(ctx context.Context, _ mcp.CallToolRequest, _ struct{}) (ExerciseList, error) {
	exs, err := s.catalog.Exercises(ctx)
	if err != nil {
		return ExerciseList{}, fmt.Errorf("failed to list exercises: %w", err)
	}
	out := ExerciseList{Exercises: make([]ExerciseInfo, 0, len(exs))}
	for _, ex := range exs {
		out.Exercises = append(out.Exercises, ExerciseInfo{
			ID:          ex.ID,
			Title:       ex.Title,
			Description: ex.Description,
			Layout:      ex.Rules.Layout,
			Problems:    len(ex.Problems),
		})
	}
	return out, nil
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args startArgs) (SessionView, error) {
	id, sess, err := s.sessions.Open(ctx, args.ExerciseID)
	if err != nil {
		return SessionView{}, err
	}
	return view(id, sess), nil
}

func (s *Server) handleView(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (SessionView, error) {
	sess, err := s.sessions.Get(args.SessionID)
	if err != nil {
		return SessionView{}, err
	}
	return view(args.SessionID, sess), nil
}

func (s *Server) handleDrop(ctx context.Context, _ mcp.CallToolRequest, args dropArgs) (MoveResult, error) {
	return s.move(ctx, args.SessionID, domain.ItemID(args.Item), domain.InZone(domain.ZoneID(args.Zone)))
}

func (s *Server) handleAdd(ctx context.Context, _ mcp.CallToolRequest, args tileArgs) (MoveResult, error) {
	return s.move(ctx, args.SessionID, domain.ItemID(args.Tile), domain.Sequence())
}

func (s *Server) handleRemove(ctx context.Context, _ mcp.CallToolRequest, args tileArgs) (MoveResult, error) {
	return s.move(ctx, args.SessionID, domain.ItemID(args.Tile), domain.Bank())
}

func (s *Server) handleCheck(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (CheckResult, error) {
	sess, err := s.sessions.Get(args.SessionID)
	if err != nil {
		return CheckResult{}, err
	}
	res := sess.Check(ctx)
	return CheckResult{SessionView: view(args.SessionID, sess), Performed: res.Performed, Outcome: res.Outcome}, nil
}

func (s *Server) handleReset(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (SessionView, error) {
	sess, err := s.sessions.Get(args.SessionID)
	if err != nil {
		return SessionView{}, err
	}
	sess.Reset(ctx)
	return view(args.SessionID, sess), nil
}

func (s *Server) handleNext(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (SessionView, error) {
	sess, err := s.sessions.Get(args.SessionID)
	if err != nil {
		return SessionView{}, err
	}
	sess.Next(ctx)
	return view(args.SessionID, sess), nil
}

func (s *Server) handleEnd(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (Ended, error) {
	if err := s.sessions.Close(ctx, args.SessionID); err != nil {
		return Ended{}, err
	}
	return Ended{SessionID: args.SessionID, Closed: true}, nil
}

// move drags the item and drops its encoded envelope on target, like a pointer would.
func (s *Server) move(ctx context.Context, sessionID string, item domain.ItemID, target domain.Location) (MoveResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return MoveResult{}, err
	}

	env, ok := sess.Drag(ctx, item)
	if !ok {
		return MoveResult{SessionView: view(sessionID, sess), Rejection: domain.RejectStale}, nil
	}
	raw, err := payload.Encode(env)
	if err != nil {
		return MoveResult{}, fmt.Errorf("failed to encode drag payload: %w", err)
	}
	res := sess.DropRaw(ctx, raw, target)
	if !res.Accepted {
		s.logger.Debug("MCP move rejected", "session_id", sessionID, "item", item, "reason", res.Rejection)
	}
	return MoveResult{
		SessionView: view(sessionID, sess),
		Accepted:    res.Accepted,
		Rejection:   res.Rejection,
		Outcome:     res.Outcome,
	}, nil
}

func view(id string, sess ports.Session) SessionView {
	snap := sess.Snapshot()
	return SessionView{SessionID: id, Board: runner.RenderMarkdown(snap), Snapshot: snap}
}
