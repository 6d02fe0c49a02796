package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"

	"imperat/internal/compiler"
	"imperat/internal/codegen"
	"imperat/internal/config"
	"imperat/internal/diag"
	"imperat/internal/printer"
	"imperat/internal/watch"
)

const usage = `Usage: imperat <command> [flags] <file>

Commands:
  check <file>              type-check and print the decorated AST
  translate <file> [out]    write the lambda artifact (default: <file> with the output extension)
  run <file>                translate and evaluate, printing the observable state
  repl                      read programs interactively

Flags:
  -o <path>                 artifact path for translate
  -watch                    re-run translate or run whenever the file changes
  -fuel <n>                 evaluation step budget for run (0 means no step limit)
  -v                        verbose diagnostics on stderr
`

var (
	exitFn    = os.Exit
	compileFn = compiler.Compile
	writeFn   = codegen.WriteArtifact
	replFn    = runREPL
)

func main() {
	exitFn(runCLI(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	cfg     config.Config
	outPath string
	watch   bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (o *options) logf(format string, args ...interface{}) {
	if o.cfg.Verbose {
		fmt.Fprintf(o.stderr, format+"\n", args...)
	}
}

func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return 1
	}
	cmd, rest := args[0], args[1:]
	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		fmt.Fprint(stdout, usage)
		return 0
	}

	opts := &options{cfg: config.Load(), stdin: stdin, stdout: stdout, stderr: stderr}
	fs := flag.NewFlagSet("imperat "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.outPath, "o", "", "artifact path")
	fs.BoolVar(&opts.watch, "watch", false, "re-run on change")
	fs.IntVar(&opts.cfg.Fuel, "fuel", opts.cfg.Fuel, "evaluation step budget")
	fs.BoolVar(&opts.cfg.Verbose, "v", opts.cfg.Verbose, "verbose diagnostics")
	if err := fs.Parse(rest); err != nil {
		return 1
	}
	files := fs.Args()

	var action func(path string) int
	switch cmd {
	case "repl":
		if err := replFn(opts); err != nil {
			fmt.Fprintln(stdout, err)
			return 1
		}
		return 0
	case "check":
		action = opts.check
	case "translate":
		if len(files) == 2 && opts.outPath == "" {
			opts.outPath, files = files[1], files[:1]
		}
		action = opts.translate
	case "run":
		action = opts.run
	default:
		fmt.Fprintf(stdout, "Error: unknown command %q\n", cmd)
		fmt.Fprint(stdout, usage)
		return 1
	}

	if len(files) != 1 {
		fmt.Fprintln(stdout, "Error: invalid number of arguments.")
		fmt.Fprint(stdout, usage)
		return 1
	}
	path := files[0]
	if path != "-" && !opts.cfg.HasSourceExt(path) {
		fmt.Fprintf(stdout, "Error: the extension must be %s\n", opts.cfg.SourceExt)
		return 1
	}
	if !opts.watch {
		return action(path)
	}
	if path == "-" || cmd == "check" {
		fmt.Fprintln(stdout, "Error: -watch needs a source file and the translate or run command")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := watch.Run(ctx, path, opts.cfg.WatchInterval, func() {
		opts.logf("[watch] %s changed", path)
		action(path)
	})
	if err != nil {
		fmt.Fprintln(stdout, errors.Wrapf(err, "failed to watch %s", path))
		return 1
	}
	return 0
}

func (o *options) readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(o.stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read standard input")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return string(data), nil
}

func (o *options) check(path string) int {
	src, err := o.readSource(path)
	if err != nil {
		fmt.Fprintln(o.stdout, err)
		return 1
	}
	root, info, err := compiler.Check(src)
	if err != nil {
		o.report(path, src, err)
		return 1
	}
	if err := printer.Fprint(o.stdout, root, info); err != nil {
		fmt.Fprintln(o.stdout, errors.Wrap(err, "failed to print the AST"))
		return 1
	}
	return 0
}

func (o *options) compile(path string) (*compiler.Result, bool) {
	src, err := o.readSource(path)
	if err != nil {
		fmt.Fprintln(o.stdout, err)
		return nil, false
	}
	res, err := compileFn(src)
	if err != nil {
		o.report(path, src, err)
		return nil, false
	}
	for _, t := range res.Timings {
		o.logf("[%s] %v", t.Stage, t.Duration)
	}
	o.logf("[layout] %d slots %s", res.Layout.Len(), res.Layout)
	return res, true
}

func (o *options) translate(path string) int {
	res, ok := o.compile(path)
	if !ok {
		return 1
	}
	out := o.outPath
	if out == "" {
		if path == "-" {
			fmt.Fprint(o.stdout, res.Artifact.Source())
			return 0
		}
		out = o.cfg.OutputPath(path)
	}
	if err := writeFn(out, res.Artifact); err != nil {
		fmt.Fprintln(o.stdout, errors.Wrapf(err, "translate %s", path))
		return 1
	}
	fmt.Fprintf(o.stdout, "File %s created\n", out)
	return 0
}

func (o *options) run(path string) int {
	res, ok := o.compile(path)
	if !ok {
		return 1
	}
	output, err := res.Artifact.Run(int64(o.cfg.Fuel))
	if err != nil {
		fmt.Fprintln(o.stdout, errors.Wrap(err, "evaluation failed"))
		return 1
	}
	fmt.Fprintln(o.stdout, output)
	return 0
}

// report prints the one-line diagnostic; the source excerpt goes to stderr
// in verbose mode.
func (o *options) report(path, src string, err error) {
	var ce *diag.CodeError
	if !errors.As(err, &ce) {
		fmt.Fprintln(o.stdout, err)
		return
	}
	fmt.Fprintln(o.stdout, ce.Message)
	if o.cfg.Verbose {
		name := path
		if name == "-" {
			name = "<stdin>"
		}
		fmt.Fprintln(o.stderr, strings.TrimRight(diag.Render(name, src, ce), "\n"))
	}
}
