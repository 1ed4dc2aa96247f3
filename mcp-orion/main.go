package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	orion "github.com/rphilander/orion/core"
)

// session is one live interpreter shared by every tool call. Calls are
// serialized because the interpreter is single-threaded.
type session struct {
	mu     sync.Mutex
	in     *orion.Interpreter
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newSession() *session {
	s := &session{}
	s.reset()
	return s
}

// reset must be called with mu held (or before the session is shared).
func (s *session) reset() {
	if s.in != nil {
		if err := s.in.Close(); err != nil {
			log.Printf("close session: %v", err)
		}
	}
	s.in = orion.New(&orion.Node{Kind: orion.NodeScope})
	s.in.Stdout = &s.stdout
	s.in.Stderr = &s.stderr
	s.in.Stdin = bufio.NewReader(strings.NewReader(""))
}

// eval runs src and returns what it printed plus its value. A failed assert
// ends the session: the interpreter is replaced and the failure reported.
func (s *session) eval(src string) (out string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stdout.Reset()
	s.stderr.Reset()

	defer func() {
		if r := recover(); r != nil {
			ae, ok := r.(*orion.AssertError)
			if !ok {
				panic(r)
			}
			s.reset()
			err = fmt.Errorf("%s (session reset)", ae.Error())
		}
	}()

	val, evalErr := s.in.EvalString(src)
	return formatOutput(s.stdout.String(), s.stderr.String(), val, evalErr)
}

func formatOutput(stdout, stderr string, val orion.Value, evalErr error) (string, error) {
	var b strings.Builder
	if stdout != "" {
		b.WriteString(stdout)
		if !strings.HasSuffix(stdout, "\n") {
			b.WriteByte('\n')
		}
	}
	if stderr != "" {
		b.WriteString("stderr: ")
		b.WriteString(stderr)
		if !strings.HasSuffix(stderr, "\n") {
			b.WriteByte('\n')
		}
	}
	if evalErr != nil {
		return "", fmt.Errorf("%s%w", b.String(), evalErr)
	}
	b.WriteString("=> ")
	b.WriteString(val.String())
	return b.String(), nil
}

var sess = newSession()

func handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := sess.eval(expr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func handleParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ast, err := orion.Parse(expr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	forms := make([]string, len(ast.Children))
	for i, form := range ast.Children {
		forms[i] = form.String()
	}
	return mcp.NewToolResultText(strings.Join(forms, "\n")), nil
}

func handleBuiltins(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess.mu.Lock()
	names := sess.in.Builtins()
	sess.mu.Unlock()
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess.mu.Lock()
	sess.reset()
	sess.mu.Unlock()
	return mcp.NewToolResultText("session reset"), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	name := envOr("ORION_NAME", "orion")

	s := server.NewMCPServer(
		name,
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("orion_eval",
			mcp.WithDescription("Evaluate orion forms in the live session. Definitions persist between calls. Returns printed output and the value of the last form."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("One or more forms, e.g. (define sq (lambda (x) {(* x x)})) (sq 4)"),
			),
		),
		handleEval,
	)

	s.AddTool(
		mcp.NewTool("orion_parse",
			mcp.WithDescription("Parse orion source and return the syntax tree of each top-level form without evaluating it."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Source text to parse"),
			),
		),
		handleParse,
	)

	s.AddTool(
		mcp.NewTool("orion_builtins",
			mcp.WithDescription("List the names of the builtin functions."),
		),
		handleBuiltins,
	)

	s.AddTool(
		mcp.NewTool("orion_reset",
			mcp.WithDescription("Discard every binding and open database and start a fresh session."),
		),
		handleReset,
	)

	log.Printf("serving %s over stdio", name)
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
