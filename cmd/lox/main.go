// Command lox is the Lox interpreter's entry point: run a script file, a one-line program passed
// with -c, or an interactive REPL when no arguments are given.
//
// The flag set, the REPL's use of github.com/chzyer/readline with a persisted history file, and
// the CPU/memory/execution-trace profiling flags are carried over from golox's main.go unchanged
// in shape; they're CLI ergonomics, not language semantics.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/errs"
	"github.com/loxlang/lox/interpreter"
	"github.com/loxlang/lox/parser"
	"github.com/loxlang/lox/resolver"
)

var (
	cmd      = flag.String("c", "", "Program passed in as a string")
	printAST = flag.Bool("p", false, "Print the parsed AST instead of running the program")

	cpuProfile = flag.String("cpuprofile", "", "Write a CPU profile to the specified file before exiting.")
	memProfile = flag.String("memprofile", "", "Write an allocation profile to the file before exiting.")
	traceFile  = flag.String("trace", "", "Write an execution trace to the specified file before exiting.")
)

// nolint:revive
func Usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: lox [options] [script]\n\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Options:\n")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	flag.Usage = Usage
	flag.Parse()

	stopProfiling := startProfiling()
	defer stopProfiling()

	switch {
	case *cmd != "":
		os.Exit(runSource([]byte(*cmd)))
	case len(flag.Args()) == 0:
		os.Exit(runREPL())
	case len(flag.Args()) == 1:
		os.Exit(runFile(flag.Arg(0)))
	default:
		flag.Usage()
		os.Exit(64)
	}
}

func startProfiling() (stop func()) {
	stops := []func(){}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("failed to create CPU profile: %s", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("failed to start CPU profile: %s", err)
		}
		stops = append(stops, func() { pprof.StopCPUProfile(); f.Close() })
	}
	if *memProfile != "" {
		stops = append(stops, func() {
			f, err := os.Create(*memProfile)
			if err != nil {
				log.Fatalf("failed to create memory profile: %s", err)
			}
			defer f.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatalf("failed to write memory profile: %s", err)
			}
		})
	}
	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			log.Fatalf("failed to create trace output file: %s", err)
		}
		if err := trace.Start(f); err != nil {
			log.Fatalf("failed to start trace: %s", err)
		}
		stops = append(stops, func() { trace.Stop(); f.Close() })
	}

	return func() {
		for _, s := range stops {
			s()
		}
	}
}

// run parses, resolves and interprets src, reporting diagnostics to reporter. It returns the exit
// code: 0 on success, 65 if a compile-time error was reported, 70 if a runtime error was reported
// (a compile-time error takes precedence if both occurred, which can't actually happen here since
// a compile error stops the pipeline before interpretation starts).
func run(src []byte, reporter *errs.Reporter) int {
	program := parser.Parse(src, reporter)
	if reporter.HadError {
		return 65
	}

	if *printAST {
		fmt.Print(ast.Print(program))
		return 0
	}

	locals := resolver.Resolve(program, reporter)
	if reporter.HadError {
		return 65
	}

	interp := interpreter.New(reporter)
	interp.Interpret(program, locals)
	if reporter.HadRuntimeError {
		return 70
	}
	return 0
}

func runSource(src []byte) int {
	reporter := errs.New(os.Stderr)
	return run(src, reporter)
}

func runFile(name string) int {
	src, err := os.ReadFile(name)
	if err != nil {
		log.Fatal(err)
	}
	return run(src, errs.New(os.Stderr))
}

func runREPL() int {
	cfg := &readline.Config{Prompt: "> "}
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = path.Join(homeDir, ".lox_history")
	} else {
		fmt.Fprintf(os.Stderr, "Can't get current user's home directory (%s). Command history will not be saved.\n", err)
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		log.Fatalf("running Lox REPL: %s", err)
	}
	defer rl.Close()

	banner := color.New(color.Bold)
	banner.Fprintln(os.Stderr, "Welcome to Lox!")

	reporter := errs.New(os.Stderr)
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return 0
			}
			log.Fatalf("unexpected error from readline: %s", err)
		}

		if line == "" {
			return 0
		}

		reporter.Reset()
		run([]byte(line), reporter)
	}
}
