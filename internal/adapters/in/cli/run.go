package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"allocator/internal/core/domain/services"

	"github.com/jessevdk/go-flags"
)

// Exit codes returned by Run.
const (
	ExitFulfilled   = 0
	ExitUsage       = 1
	ExitUnfulfilled = 2
)

var (
	ErrConflictingInput = errors.New("--file cannot be combined with --order or --warehouse")
	ErrExclusiveModes   = errors.New("--dry-run and --atomic are exclusive")
)

// Options are the command line flags.
type Options struct {
	Order      string   `short:"o" long:"order" description:"Order as item:qty,item:qty"`
	Warehouses []string `short:"w" long:"warehouse" description:"Warehouse as name=item:qty,... (repeat in rank order)"`
	File       string   `short:"f" long:"file" description:"YAML request file. Use - for stdin."`
	DryRun     bool     `long:"dry-run" description:"Compute the plan without consuming stock"`
	Atomic     bool     `long:"atomic" description:"Restore stock when the order cannot be fulfilled"`
	JSON       bool     `long:"json" description:"Print the result as JSON"`
	Stock      bool     `long:"stock" description:"Print the remaining stock after the pass"`
	Verbose    bool     `short:"v" long:"verbose" description:"Log allocator diagnostics at debug level"`
}

// Run parses args, allocates and prints the result. It returns the process
// exit code: 0 when the order is fulfilled, 2 when it is rejected or cannot
// be fulfilled, 1 on usage errors.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "allocate"

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			_, _ = fmt.Fprintln(stdout, err)
			return ExitFulfilled
		}
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	request, err := opts.request(stdin)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "allocate:", err)
		return ExitUsage
	}

	o, warehouses, err := request.Build()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "allocate:", err)
		return ExitUsage
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	allocator := services.NewInventoryAllocator(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	var result services.Result
	switch {
	case request.DryRun:
		result = allocator.DryRun(o, warehouses)
	case request.Atomic:
		result = allocator.AllocateAtomic(o, warehouses)
	default:
		result = allocator.Allocate(o, warehouses)
	}

	out := newOutput(result, request.DryRun)
	if opts.JSON {
		err = renderJSON(stdout, out)
	} else {
		err = renderTable(stdout, out)
	}
	if err == nil && opts.Stock && !opts.JSON {
		err = renderStock(stdout, warehouses)
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "allocate:", err)
		return ExitUsage
	}

	if !result.IsFulfilled() {
		return ExitUnfulfilled
	}
	return ExitFulfilled
}

func (opts Options) request(stdin io.Reader) (Request, error) {
	if opts.File != "" {
		if opts.Order != "" || len(opts.Warehouses) > 0 {
			return Request{}, ErrConflictingInput
		}
		return opts.loadFile(stdin)
	}

	lines, err := ParseLines(opts.Order)
	if err != nil {
		return Request{}, fmt.Errorf("order: %w", err)
	}

	request := Request{Order: lines, DryRun: opts.DryRun, Atomic: opts.Atomic}
	for _, w := range opts.Warehouses {
		spec, parseErr := ParseWarehouse(w)
		if parseErr != nil {
			return Request{}, parseErr
		}
		request.Warehouses = append(request.Warehouses, spec)
	}

	if request.DryRun && request.Atomic {
		return Request{}, ErrExclusiveModes
	}
	return request, nil
}

func (opts Options) loadFile(stdin io.Reader) (Request, error) {
	var r io.Reader = stdin
	if opts.File != "-" {
		f, err := os.Open(opts.File)
		if err != nil {
			return Request{}, err
		}
		defer f.Close()
		r = f
	}

	request, err := LoadRequest(r)
	if err != nil {
		return Request{}, err
	}

	request.DryRun = request.DryRun || opts.DryRun
	request.Atomic = request.Atomic || opts.Atomic
	if request.DryRun && request.Atomic {
		return Request{}, ErrExclusiveModes
	}
	return request, nil
}
