/*
File    : kaleidoscope/repl/repl.go
*/
// Package repl implements Kaleidoscope's interactive Read-Eval-Print Loop:
// a banner/prompt/readline/color shell driving a jit.Evaluator, with
// dot-commands for exiting, resetting the module, and toggling options.
package repl

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/kaleidoscope-lang/kaleidoscope/jit"
	"github.com/kaleidoscope-lang/kaleidoscope/natives"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl holds the session's display strings (banner/version/author/line/
// license/prompt) and its logger.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string

	Log *logrus.Logger
}

// NewRepl returns a Repl ready for Start. Log may be nil, in which case a
// logger that discards everything is used (keeps Start usable in tests
// without forcing every caller to wire one up).
func NewRepl(banner, version, author, line, license, prompt string, log *logrus.Logger) *Repl {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt, Log: log}
}

// PrintBannerInfo displays the startup banner, version line, and usage tips.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to Kaleidoscope!")
	cyanColor.Fprintf(writer, "%s\n", "Type a def, extern, or expression and press enter")
	cyanColor.Fprintf(writer, "%s\n", "Type '.help' for built-in commands, '.exit' to quit")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start runs the REPL loop against reader/writer until the user exits,
// EOF arrives, or the underlying readline instance errors.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.NewEx(&readline.Config{
		Prompt: r.Prompt,
		Stdin:  io.NopCloser(reader),
		Stdout: writer,
	})
	if err != nil {
		redColor.Fprintf(writer, "[READLINE ERROR] %v\n", err)
		return
	}
	defer rl.Close()

	ev := jit.NewEvaluator()
	ev.SetWriter(writer)
	opts := jit.DefaultOptions()

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rl.SaveHistory(line)

		if strings.HasPrefix(line, ".") {
			if r.runCommand(writer, ev, &opts, line) {
				writer.Write([]byte("Good Bye!\n"))
				return
			}
			continue
		}

		r.evalWithRecovery(writer, ev, opts, line)
	}
}

// runCommand handles a leading-dot built-in. It returns true when the
// session should end.
func (r *Repl) runCommand(writer io.Writer, ev *jit.Evaluator, opts *jit.Options, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".exit":
		return true
	case ".help":
		cyanColor.Fprintln(writer, ".exit              quit the session")
		cyanColor.Fprintln(writer, ".reset             rebuild the module from known-good history")
		cyanColor.Fprintln(writer, ".set <opt> <bool>  toggle optimize|llvmdump|noexec|parseonly|verbose")
		cyanColor.Fprintln(writer, ".natives           list native externs resolvable without a def/extern body")
		return false
	case ".natives":
		names := natives.Names()
		sort.Strings(names)
		cyanColor.Fprintln(writer, strings.Join(names, ", "))
		return false
	case ".reset":
		if err := ev.Reset(nil); err != nil {
			r.Log.WithError(err).Warn("reset failed")
			redColor.Fprintf(writer, "[RESET ERROR] %v\n", err)
		} else {
			greenColor.Fprintln(writer, "module reset")
		}
		return false
	case ".set":
		if len(fields) != 3 {
			redColor.Fprintln(writer, "usage: .set <optimize|llvmdump|noexec|parseonly|verbose> <true|false>")
			return false
		}
		v, err := strconv.ParseBool(fields[2])
		if err != nil {
			redColor.Fprintf(writer, "[SET ERROR] %v\n", err)
			return false
		}
		if !applyOption(opts, fields[1], v) {
			redColor.Fprintf(writer, "[SET ERROR] unknown option %q\n", fields[1])
			return false
		}
		greenColor.Fprintf(writer, "%s = %v\n", fields[1], v)
		return false
	default:
		redColor.Fprintf(writer, "[COMMAND ERROR] unknown command %q (try .help)\n", fields[0])
		return false
	}
}

func applyOption(opts *jit.Options, name string, v bool) bool {
	switch name {
	case "optimize":
		opts.Optimize = v
	case "llvmdump":
		opts.LLVMDump = v
	case "noexec":
		opts.NoExec = v
	case "parseonly":
		opts.ParseOnly = v
	case "verbose":
		opts.Verbose = v
	default:
		return false
	}
	return true
}

// evalWithRecovery evaluates one line of source, displaying either its
// result or its error, and never lets a panic escape to crash the session.
func (r *Repl) evalWithRecovery(writer io.Writer, ev *jit.Evaluator, opts jit.Options, line string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[RUNTIME ERROR] %v\n", recovered)
		}
	}()

	results, err := ev.Eval(line, opts)
	if err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}

	for _, result := range results {
		if opts.ParseOnly {
			yellowColor.Fprintf(writer, "%+v\n", result.AST)
			continue
		}
		if opts.Verbose {
			cyanColor.Fprintln(writer, result.UnoptimizedIR)
		}
		if result.Value != nil {
			yellowColor.Fprintf(writer, "%s\n", formatValue(*result.Value))
		}
	}
}

func formatValue(v float64) string {
	return fmt.Sprintf("%g", v)
}
