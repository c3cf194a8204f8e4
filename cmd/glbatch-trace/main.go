// Command glbatch-trace prints the frame phase trace written by glbatch -trace.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/tinyrange/glbatch/internal/timeslice"
)

type phase struct {
	Name      string
	Durations []time.Duration
	Sum       time.Duration
}

func (p *phase) add(d time.Duration) {
	p.Durations = append(p.Durations, d)
	p.Sum += d
}

// percentile returns the q-th quantile using nearest rank. Durations must be
// sorted.
func (p *phase) percentile(q float64) time.Duration {
	if len(p.Durations) == 0 {
		return 0
	}
	i := int(q*float64(len(p.Durations))+0.5) - 1
	return p.Durations[min(max(i, 0), len(p.Durations)-1)]
}

func (p *phase) String() string {
	n := len(p.Durations)
	return fmt.Sprintf("%-10s count=%8d sum=%14s min=%12s p50=%12s p95=%12s max=%12s avg=%12s",
		p.Name, n, p.Sum,
		p.Durations[0],
		p.percentile(0.5),
		p.percentile(0.95),
		p.Durations[n-1],
		p.Sum/time.Duration(n),
	)
}

// summarize groups a trace by phase in first-seen order.
func summarize(r io.Reader) ([]*phase, error) {
	byName := map[string]*phase{}
	var order []*phase
	if err := timeslice.ReadAll(r, func(kind string, d time.Duration) error {
		p, ok := byName[kind]
		if !ok {
			p = &phase{Name: kind}
			byName[kind] = p
			order = append(order, p)
		}
		p.add(d)
		return nil
	}); err != nil {
		return nil, err
	}
	for _, p := range order {
		slices.Sort(p.Durations)
	}
	return order, nil
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("glbatch-trace", flag.ContinueOnError)
	raw := fs.Bool("raw", false, "print every record instead of per-phase sums")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected one trace file")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	if *raw {
		return timeslice.ReadAll(f, func(kind string, d time.Duration) error {
			_, err := fmt.Fprintf(stdout, "%s %s\n", kind, d)
			return err
		})
	}

	phases, err := summarize(f)
	if err != nil {
		return err
	}
	for _, p := range phases {
		fmt.Fprintln(stdout, p)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "glbatch-trace: %v\n", err)
		os.Exit(1)
	}
}
