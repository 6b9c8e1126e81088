// Command chunkgraph prints the chunked build order of a Go module's dependency graph, reports
// circular dependency groups, and answers "would adding this dependency create a cycle?".
//
// The module graph is read from `go mod graph` (run in the directory given as the positional
// argument, default "."), or from standard input in the same format when -stdin is given.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/amterp/color"
	cg "github.com/rhansen/chunkgraph"
	"github.com/rhansen/chunkgraph/internal/command"
	"github.com/rhansen/chunkgraph/internal/itertools"
	"github.com/rhansen/chunkgraph/internal/logging"
	"golang.org/x/mod/module"
)

var (
	redf     = color.New(color.FgRed).SprintfFunc()
	hiredf   = color.New(color.FgHiRed).SprintfFunc()
	greenf   = color.New(color.FgGreen).SprintfFunc()
	hiblackf = color.New(color.FgHiBlack).SprintfFunc()
)

type outputFn = func(ctx context.Context, g cg.Graph[module.Version]) error

type config struct {
	dir    string
	stdin  bool
	probe  string
	output *outputFn
}

// parseGraph builds a [cg.Graph] from `go mod graph` output lines.  Nodes appear in first-mention
// order; the root module is the first token of the first line.
func parseGraph(lines iter.Seq[string]) (cg.Graph[module.Version], error) {
	nodes := []module.Version(nil)
	seen := map[module.Version]bool{}
	deps := map[module.Version][]module.Version{}
	add := func(v module.Version) {
		if !seen[v] {
			seen[v] = true
			nodes = append(nodes, v)
		}
	}
	for line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed module graph line %q: want 2 fields, got %v", line, len(fields))
		}
		from, to := parseVersion(fields[0]), parseVersion(fields[1])
		add(from)
		add(to)
		deps[from] = append(deps[from], to)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("empty module graph")
	}
	return cg.New(nodes, func(m module.Version) iter.Seq[module.Version] {
		return slices.Values(deps[m])
	}), nil
}

func parseVersion(tok string) module.Version {
	path, ver, _ := strings.Cut(tok, "@")
	return module.Version{Path: path, Version: ver}
}

func readGraph(ctx context.Context, cfg *config) (cg.Graph[module.Version], error) {
	if cfg.stdin {
		sc := bufio.NewScanner(os.Stdin)
		lines := func(yield func(string) bool) {
			for sc.Scan() {
				if !yield(sc.Text()) {
					return
				}
			}
		}
		g, err := parseGraph(lines)
		if err == nil {
			err = sc.Err()
		}
		return g, err
	}
	lines, done := command.Lines(ctx, cfg.dir, "go", "mod", "graph")
	g, err := parseGraph(lines)
	if err2 := done(); err == nil {
		err = err2
	}
	return g, err
}

func chunkLabel(c *cg.Chunk[module.Version]) string {
	s := strings.Join(slices.Collect(itertools.Stringify(c.Nodes())), " ")
	if c.Cyclic() {
		return redf("%s", s) + hiredf(" (cycle)")
	}
	return s
}

func outputChunks(ctx context.Context, g cg.Graph[module.Version]) error {
	for i, c := range cg.SortedChunks(g) {
		fmt.Printf("%s %s\n", hiblackf("%4d", i), chunkLabel(c))
	}
	return nil
}

func outputCycles(ctx context.Context, g cg.Graph[module.Version]) error {
	cycles := cg.CyclicChunks(g)
	if len(cycles) == 0 {
		fmt.Println(greenf("no circular dependencies"))
		return nil
	}
	for _, c := range cycles {
		fmt.Printf("%s\n", chunkLabel(c))
		fix, err := cg.BreakCycle(g, c)
		if err != nil {
			return err
		}
		for _, e := range fix {
			fmt.Printf("  remove %v\n", e)
		}
	}
	return nil
}

func outputDot(ctx context.Context, g cg.Graph[module.Version]) error {
	cond := cg.Condense(g)
	names := map[*cg.Chunk[module.Version]]string{}
	fmt.Print("digraph {\n")
	fmt.Print("  node [style=filled,fillcolor=\"white\",shape=box];\n")
	for c := range cond.Chunks() {
		names[c] = strings.Join(slices.Collect(itertools.Stringify(c.Nodes())), "\\n")
		attrs := []string{}
		if c.Cyclic() {
			attrs = append(attrs, "fillcolor=\"red\"", "fontcolor=\"white\"")
		}
		fmt.Printf("  %q [%s];\n", names[c], strings.Join(attrs, ","))
	}
	for c := range cond.Chunks() {
		for d := range cond.In(c) {
			fmt.Printf("  %q -> %q;\n", names[c], names[d])
		}
	}
	fmt.Print("}\n")
	return nil
}

var allOutputFuncs = [...]outputFn{
	outputChunks,
	outputCycles,
	outputDot,
}

var allOutput = map[string]*outputFn{
	"chunks": &allOutputFuncs[0],
	"cycles": &allOutputFuncs[1],
	"dot":    &allOutputFuncs[2],
}

func runProbe(g cg.Graph[module.Version], probe string) error {
	fromTok, toTok, ok := strings.Cut(probe, ",")
	if !ok {
		return fmt.Errorf("malformed -probe argument %q: want \"from,to\"", probe)
	}
	w, err := cg.WouldCreateCycle(g, parseVersion(fromTok), parseVersion(toTok))
	if err != nil {
		return err
	}
	if w == nil {
		fmt.Println(greenf("no new cycle"))
		return nil
	}
	a, b := w.Pair()
	fmt.Printf("%s: %v and %v would become circular\n", redf("cycle"), a, b)
	fmt.Printf("  through %v\n", w.Chunk)
	return nil
}

func run(ctx context.Context, cfg *config) error {
	g, err := readGraph(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.probe != "" {
		return runProbe(g, cfg.probe)
	}
	return (*cfg.output)(ctx, g)
}

var slogLevel = func() *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(logging.LevelInfo)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	return lvl
}()

func choiceFlag[T any](p *T, name string, choices map[string]T, dflt string, usage string) {
	cstr := strings.Join(slices.Sorted(maps.Keys(choices)), ", ")
	var ok bool
	if *p, ok = choices[dflt]; !ok {
		panic(fmt.Errorf("invalid default for %v option: %v", name, dflt))
	}
	usage += fmt.Sprintf(" (one of: %v; default: %v)", cstr, dflt)
	flag.Func(name, usage, func(arg string) error {
		if arg == "" {
			arg = dflt
		}
		v, ok := choices[arg]
		if !ok {
			return fmt.Errorf("expected one of: %v", cstr)
		}
		*p = v
		return nil
	})
}

func parseFlags() *config {
	cfg := &config{}

	bumpLogLevel := func(lower bool) {
		slogLevel.Set(logging.BumpLevel(slogLevel.Level(), lower))
	}
	setLogLevel := func(arg string) error {
		lvl, err := logging.StringToLevel(arg)
		if err != nil {
			return err
		}
		slogLevel.Set(lvl)
		return nil
	}
	flag.BoolFunc("v", "Increase log verbosity.", func(arg string) error {
		switch arg {
		case "", "true":
			bumpLogLevel(true)
		default:
			return setLogLevel(arg)
		}
		return nil
	})
	flag.BoolFunc("q", "Decrease log verbosity.", func(arg string) error {
		switch arg {
		case "", "true":
			bumpLogLevel(false)
		default:
			return setLogLevel(arg)
		}
		return nil
	})

	colorChoices := map[string]bool{
		"auto":   color.NoColor,
		"never":  true,
		"always": false,
	}
	choiceFlag(&color.NoColor, "color", colorChoices, "auto",
		"Output colors according to `mode`.")
	choiceFlag(&cfg.output, "format", allOutput, "chunks",
		"Print the graph according to `mode`.")
	flag.BoolVar(&cfg.stdin, "stdin", false,
		"Read `go mod graph` output from standard input instead of running go.")
	flag.StringVar(&cfg.probe, "probe", "",
		"Report whether adding the dependency edge `from,to` would create a new cycle, then exit.")
	help := func(string) error {
		flag.CommandLine.SetOutput(os.Stdout)
		flag.Usage()
		os.Exit(0)
		return nil
	}
	helpUsage := "Print usage information and exit."
	flag.BoolFunc("h", helpUsage, help)
	flag.BoolFunc("help", helpUsage, help)
	flag.Parse()
	cfg.dir = "."
	switch args := flag.Args(); len(args) {
	case 0:
	case 1:
		cfg.dir = args[0]
	default:
		log.Fatal("at most one module directory is accepted")
	}
	return cfg
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := parseFlags()
	if err := run(ctx, cfg); err != nil {
		slog.ErrorContext(ctx, "failed", "error", err)
		os.Exit(1)
	}
}
