package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fortio.org/log"
	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"alin/interpreter-go/pkg/diag"
	"alin/interpreter-go/pkg/driver"
	"alin/interpreter-go/pkg/playground"
	"alin/interpreter-go/pkg/repl"
)

const cliToolVersion = "alin 0.1.0"

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

type cliOptions struct {
	configPath string
	logLevel   string
	dumpTokens bool
	dumpAST    bool
	serveAddr  string
	serve      bool
}

// run executes the CLI with argv as in os.Args and returns the exit status.
func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, optind, err := getopt.Getopts(argv, "c:l:tps:hV")
	if err != nil {
		fmt.Fprintf(stderr, "alin: %v\n", err)
		printUsage(stderr)
		return 2
	}
	var cli cliOptions
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			cli.configPath = opt.Value
		case 'l':
			cli.logLevel = opt.Value
		case 't':
			cli.dumpTokens = true
		case 'p':
			cli.dumpAST = true
		case 's':
			cli.serve = true
			cli.serveAddr = opt.Value
		case 'V':
			fmt.Fprintln(stdout, cliToolVersion)
			return 0
		default: // 'h'
			printUsage(stdout)
			return 0
		}
	}
	args := argv[optind:]
	if len(args) > 1 {
		fmt.Fprintf(stderr, "alin: expected at most one file, got %d arguments\n", len(args))
		printUsage(stderr)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := driver.LoadConfig(driver.ResolveConfigPath(cli.configPath, cwd))
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if cli.logLevel != "" {
		cfg.LogLevel = cli.logLevel
	}
	level, err := log.ValidateLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "alin: invalid log level %q\n", cfg.LogLevel)
		return 2
	}
	log.SetLogLevel(level)
	colored := useColor(cfg.Color, stderr)
	color.NoColor = !colored

	switch {
	case cli.serve:
		return serve(cfg.Playground, cli.serveAddr)
	case cli.dumpTokens || cli.dumpAST:
		return dump(cli, args, stdin, stdout, stderr, colored)
	case len(args) == 0:
		session := driver.NewSession(cfg, stdout)
		if err := repl.New(session, stdin, stdout, stderr, repl.WithColor(colored)).Run(); err != nil {
			log.Errf("%v", err)
			return 1
		}
		return 0
	default:
		return runFile(cfg, args[0], stdout, stderr, colored)
	}
}

// runFile executes one source file in a fresh session. A missing file is reported and is
// not a failure; input that does not parse is.
func runFile(cfg *driver.Config, path string, stdout, stderr io.Writer, colored bool) int {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(stderr, "File not found: %s\n", path)
			return 0
		}
		fmt.Fprintf(stderr, "failed to read %s: %v\n", path, err)
		return 1
	}
	fmt.Fprintf(stdout, "Running file: %s\n", path)
	report := driver.NewSession(cfg, stdout).Run(string(data))
	diag.Fprint(stderr, report.Diagnostics, colored)
	if !report.Parsed() {
		return 1
	}
	return 0
}

// dump prints tokens or the AST of the file, or of stdin when no file is given.
func dump(cli cliOptions, args []string, stdin io.Reader, stdout, stderr io.Writer, colored bool) int {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintf(stderr, "failed to read source: %v\n", err)
		return 1
	}
	session := driver.NewSession(nil, io.Discard)
	source := string(data)

	if cli.dumpTokens {
		tokens, diags := session.Tokens(source)
		for _, tok := range tokens {
			fmt.Fprintf(stdout, "%s\t%s\t%s\n", tok.Pos, tok.Kind, tok)
		}
		diag.Fprint(stderr, diags, colored)
	}
	if cli.dumpAST {
		program, diags := session.Parse(source)
		diag.Fprint(stderr, diags, colored)
		if program == nil {
			return 1
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(program); err != nil {
			fmt.Fprintf(stderr, "failed to encode AST: %v\n", err)
			return 1
		}
	}
	return 0
}

func serve(cfg driver.PlaygroundConfig, addr string) int {
	if addr != "" {
		cfg.Addr = addr
	}
	server := playground.New(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			log.Errf("playground shutdown: %v", err)
		}
	}()
	if err := server.ListenAndServe(); err != nil {
		log.Errf("error in ListenAndServe: %v", err)
		return 1
	}
	return 0
}

func useColor(mode driver.ColorMode, w io.Writer) bool {
	switch mode {
	case driver.ColorAlways:
		return true
	case driver.ColorNever:
		return false
	default:
		_, noColor := os.LookupEnv("NO_COLOR")
		return !noColor && repl.IsTerminal(w)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage: alin [options] [file]

Runs file, or starts an interactive session when no file is given. The session reads
lines until exit(), end of input, or three consecutive read errors.

options:
  -c FILE   config file (default: ./alin.yml, then $ALIN_CONFIG)
  -l LEVEL  log level (debug, verbose, info, warning, error)
  -t        print the tokens of the input instead of running it
  -p        print the syntax tree of the input as JSON instead of running it
  -s ADDR   serve the HTTP playground on ADDR (empty for the configured address)
  -h        show this help
  -V        print the version
`)
}
