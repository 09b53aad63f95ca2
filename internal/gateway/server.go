package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/lawctl/lawctl/internal/approval"
	"github.com/lawctl/lawctl/internal/audit"
	"github.com/lawctl/lawctl/internal/gateway/handlers"
	"github.com/lawctl/lawctl/internal/policy"
)

// Server mediates every action an agent requests over its Unix socket: it
// evaluates the action against a policy engine, executes it if permitted,
// and logs the outcome before replying — regardless of outcome.
type Server struct {
	SocketPath    string
	WorkspaceRoot string
	SessionID     string
	AgentName     string
	Engine        *policy.Engine
	Logger        *audit.Logger
	Approval      approval.Broker
	Stderr        io.Writer
}

// Run binds the Unix socket and serves connections until ctx is canceled.
// An existing socket file at SocketPath is removed before binding — a stale
// socket from a crashed prior run must never block a restart.
func (s *Server) Run(ctx context.Context) error {
	if err := os.RemoveAll(s.SocketPath); err != nil {
		return fmt.Errorf("removing stale socket %s: %w", s.SocketPath, err)
	}

	listener, err := net.Listen("unix", s.SocketPath)
	if err != nil {
		return fmt.Errorf("binding socket %s: %w", s.SocketPath, err)
	}
	defer listener.Close()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	stderr := s.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	fmt.Fprintf(stderr, "[lawctl] gateway listening on %s\n", s.SocketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				fmt.Fprintf(stderr, "[lawctl] accept error: %v\n", err)
				continue
			}
		}
		go s.handleConnection(ctx, conn, stderr)
	}
}

// handleConnection processes one JSON line at a time until the peer closes
// the connection. One malformed line produces one error response and the
// loop continues reading — a single bad request must never kill the socket
// for the rest of the session.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn, stderr io.Writer) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			resp := InternalError("unknown", fmt.Sprintf("invalid request JSON: %v", err))
			writeResponse(conn, resp)
			continue
		}

		resp := s.process(ctx, req)
		writeResponse(conn, resp)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "[lawctl] connection read error: %v\n", err)
	}
}

func writeResponse(w io.Writer, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = w.Write(data)
}

// process evaluates and, if permitted, executes one request, logging the
// final outcome unconditionally before returning the response.
func (s *Server) process(ctx context.Context, req Request) Response {
	action, ok := policy.ParseAction(req.Action)
	if !ok {
		resp := Denied(req.RequestID, fmt.Sprintf("unrecognized action: %s", req.Action))
		s.log(audit.Record{
			Timestamp: time.Now().UTC(),
			SessionID: s.SessionID,
			Agent:     s.AgentName,
			Action:    req.Action,
			Target:    req.Target,
			Decision:  string(policy.Denied),
			Diff:      req.Payload,
		})
		return resp
	}

	actionCtx := policy.NewActionContext(req.Target)
	switch action {
	case policy.ActionWrite:
		actionCtx = actionCtx.WithDiff(req.Payload)
	case policy.ActionRunCmd:
		actionCtx = actionCtx.WithCommand(req.Payload)
	case policy.ActionNetwork:
		if domain := handlers.ExtractDomain(req.Payload); domain != "" {
			actionCtx = actionCtx.WithDomain(domain)
		} else if domain := handlers.ExtractDomain(req.Target); domain != "" {
			actionCtx = actionCtx.WithDomain(domain)
		}
	}

	start := time.Now()
	decision := s.Engine.Evaluate(action, actionCtx)
	evalDuration := time.Since(start).Microseconds()

	resp, final := s.dispatch(ctx, req, action, decision)

	s.log(audit.Record{
		Timestamp:     time.Now().UTC(),
		SessionID:     s.SessionID,
		Agent:         s.AgentName,
		Action:        string(action),
		Target:        req.Target,
		PolicyRule:    final.MatchedRule,
		Decision:      string(final.Kind),
		Diff:          req.Payload,
		ApprovedBy:    final.ApprovedBy,
		EvalDurationU: evalDuration,
	})

	return resp
}

// dispatch handles a Decision already produced by the policy engine: execute
// on Allowed, deny with reason on Denied, or ask the approval broker on
// RequiresApproval. It returns both the wire response and the decision that
// actually governs the audit record (which may differ from the engine's
// Decision once a human has ruled on a RequiresApproval case).
func (s *Server) dispatch(ctx context.Context, req Request, action policy.Action, decision policy.Decision) (Response, policy.Decision) {
	switch decision.Kind {
	case policy.Allowed:
		result, err := s.execute(ctx, req, action)
		if err != nil {
			return InternalError(req.RequestID, err.Error()), decision
		}
		return Allowed(req.RequestID, result), decision

	case policy.Denied:
		return Denied(req.RequestID, decision.Reason), decision

	case policy.RequiresApproval:
		approvalReq := approval.Request{
			Action:         string(action),
			Target:         req.Target,
			PayloadPreview: truncatePreview(req.Payload, 500),
			Reason:         decision.Reason,
		}
		answer, err := s.Approval.RequestApproval(approvalReq)
		if err != nil {
			final := policy.Decision{
				Kind:   policy.Denied,
				Reason: fmt.Sprintf("Approval flow error: %v", err),
			}
			return Denied(req.RequestID, final.Reason), final
		}
		if !answer.Approved {
			final := policy.Decision{
				Kind:        policy.Denied,
				Reason:      "Denied by human reviewer",
				MatchedRule: "human review",
			}
			return Denied(req.RequestID, final.Reason), final
		}

		approvedBy := answer.ApprovedBy
		if approvedBy == "" {
			approvedBy = "terminal"
		}
		result, err := s.execute(ctx, req, action)
		if err != nil {
			return InternalError(req.RequestID, err.Error()), decision
		}
		final := policy.Decision{
			Kind:        policy.Allowed,
			MatchedRule: "approved by human",
			ApprovedBy:  approvedBy,
		}
		return Allowed(req.RequestID, result), final

	default:
		return InternalError(req.RequestID, "unknown decision kind"), decision
	}
}

// execute performs the actual side effect for a permitted action.
func (s *Server) execute(ctx context.Context, req Request, action policy.Action) (string, error) {
	switch action {
	case policy.ActionWrite:
		return handlers.ExecuteWrite(s.WorkspaceRoot, req.Target, req.Payload)
	case policy.ActionDelete:
		return handlers.ExecuteDelete(s.WorkspaceRoot, req.Target)
	case policy.ActionRunCmd:
		command := req.Payload
		if command == "" {
			command = req.Target
		}
		result, err := handlers.ExecuteCommand(ctx, s.WorkspaceRoot, command)
		if err != nil {
			return "", err
		}
		return result.Output(), nil
	case policy.ActionGitPush:
		return handlers.ExecuteGitPush(ctx, s.WorkspaceRoot, req.Target)
	case policy.ActionNetwork:
		url := req.Payload
		if url == "" {
			url = req.Target
		}
		return handlers.ValidateNetworkRequest(url), nil
	default:
		return "", fmt.Errorf("no handler for action %s", action)
	}
}

func (s *Server) log(rec audit.Record) {
	if err := s.Logger.Log(rec); err != nil {
		fmt.Fprintf(os.Stderr, "[lawctl] failed to write audit log: %v\n", err)
	}
}
