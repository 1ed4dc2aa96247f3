package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	orion "github.com/rphilander/orion/core"
)

const (
	promptMain = "orion> "
	promptCont = "...... "
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("orion: ")

	var path string
	debug := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--debug", "-d":
			debug = true
		case "--help", "-h":
			fmt.Println("usage: orion [file] [--debug]")
			return
		default:
			if path != "" {
				log.Fatalf("unexpected argument: %s", arg)
			}
			path = arg
		}
	}
	trace := envOr("ORION_TRACE", "") != ""

	defer func() {
		if r := recover(); r != nil {
			var ae *orion.AssertError
			if err, ok := r.(error); ok && errors.As(err, &ae) {
				fmt.Fprintln(os.Stderr, ae.Error())
				os.Exit(1)
			}
			panic(r)
		}
	}()

	if path == "" {
		os.Exit(repl(trace))
	}
	if err := runFile(path, debug, trace); err != nil {
		log.Fatalf("%s: %v", path, err)
	}
}

func runFile(path string, debug, trace bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ast, err := orion.Parse(string(src))
	if err != nil {
		return err
	}
	if debug {
		for _, form := range ast.Children {
			fmt.Println(form)
		}
	}
	in := orion.New(ast)
	in.Trace = trace
	defer in.Close()
	return in.Eval()
}

func repl(trace bool) int {
	fmt.Println("orion REPL. Type (quit) to exit.")

	home, _ := os.UserHomeDir()
	histPath := envOr("ORION_HISTORY", filepath.Join(home, ".orion_history"))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	in := orion.New(&orion.Node{Kind: orion.NodeScope})
	in.Trace = trace
	defer in.Close()

	for {
		src, ok := readForm(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if src == "(quit)" {
			return 0
		}

		val, err := in.EvalString(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if val.Kind != orion.ValNil {
			fmt.Println(val)
		}
	}
}

// readForm reads lines until the brackets and quotes balance.
func readForm(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			log.Printf("read: %v", err)
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !orion.Incomplete(b.String()) {
			return b.String(), true
		}
	}
}
