/*
File    : kaleidoscope/cmd/kaleidoscope/main.go
*/
// Command kaleidoscope is the front-end entry point: a REPL by default,
// or `run`/`server`/`version` subcommands built on spf13/cobra.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
	"github.com/spf13/cobra"

	"github.com/kaleidoscope-lang/kaleidoscope/jit"
	"github.com/kaleidoscope-lang/kaleidoscope/repl"
)

const (
	version = "v0.1.0"
	author  = "kaleidoscope-lang"
	license = "MIT"
	prompt  = "ks> "
	line    = "----------------------------------------------------------------"
	banner  = `
  _  __    _      _     _
 | |/ /   | |    (_)   | |
 | ' / __ _| | ___ _  __| | ___  ___  ___ ___  _ __   ___
 |  < / _\ | |/ _ \ |/ _\ |/ _ \/ __|/ __/ _ \| '_ \ / _ \
 | . \ (_| | |  __/ | (_| | (_) \__ \ (_| (_) | |_) |  __/
 |_|\_\__,_|_|\___|_|\__,_|\___/|___/\___\___/| .__/ \___|
                                               | |
                                               |_|
`
)

var (
	redColor   = color.New(color.FgRed)
	cyanColor  = color.New(color.FgCyan)
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05",
		LogFormat:       "[%lvl%] %time% - %msg%\n",
	})
	return log
}

func main() {
	log := newLogger()

	root := &cobra.Command{
		Use:   "kaleidoscope",
		Short: "Kaleidoscope front-end and JIT driver",
		Run: func(cmd *cobra.Command, args []string) {
			runREPL(log, os.Stdin, os.Stdout)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Evaluate a Kaleidoscope source file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			optimize, _ := cmd.Flags().GetBool("optimize")
			verbose, _ := cmd.Flags().GetBool("verbose")
			runFile(log, args[0], jit.Options{Optimize: optimize, Verbose: verbose})
		},
	}
	runCmd.Flags().Bool("optimize", true, "run opt-level-2 passes before execution")
	runCmd.Flags().Bool("verbose", false, "print IR dumps for every top-level form")

	serverCmd := &cobra.Command{
		Use:   "server [port]",
		Short: "Serve one REPL session per TCP connection",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runServer(log, args[0])
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cyanColor.Printf("kaleidoscope %s (%s, %s)\n", version, author, license)
		},
	}

	root.AddCommand(runCmd, serverCmd, versionCmd)

	if err := root.Execute(); err != nil {
		redColor.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runREPL(log *logrus.Logger, stdin *os.File, stdout *os.File) {
	log.Info("starting interactive session")
	r := repl.NewRepl(banner, version, author, line, license, prompt, log)
	r.Start(stdin, stdout)
}

func runFile(log *logrus.Logger, path string, opts jit.Options) {
	source, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Error("could not read source file")
		redColor.Fprintf(os.Stderr, "[FILE ERROR] %v\n", err)
		os.Exit(1)
	}

	ev := jit.NewEvaluator()
	results, err := ev.Eval(string(source), opts)
	if err != nil {
		log.WithError(err).Error("evaluation failed")
		redColor.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	for _, result := range results {
		if result.Value != nil {
			fmt.Printf("%g\n", *result.Value)
		}
	}
}

func runServer(log *logrus.Logger, port string) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		log.WithError(err).Error("failed to start server")
		redColor.Fprintf(os.Stderr, "[SERVER ERROR] %v\n", err)
		os.Exit(1)
	}
	defer listener.Close()
	log.WithField("port", port).Info("listening for REPL connections")

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.WithError(err).Warn("failed to accept connection")
			continue
		}
		go handleConnection(log, conn)
	}
}

func handleConnection(log *logrus.Logger, conn net.Conn) {
	defer conn.Close()
	sessionLog := log.WithField("session", uuid.NewString())
	sessionLog.WithField("remote", conn.RemoteAddr()).Info("client connected")

	r := repl.NewRepl(banner, version, author, line, license, prompt, log)
	r.Start(conn, conn)

	sessionLog.Info("client disconnected")
}
