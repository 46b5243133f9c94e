// taskscan enumerates the threads of running processes the same way a
// thread-attaching tracer does: through /proc, with pseudo-filesystem
// verification on every handle and a two-pass stability protocol that
// tolerates thread churn in the target.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"taskscan/internal/config"
	"taskscan/internal/otel"
	"taskscan/internal/procfilter"
	"taskscan/internal/procfs"
	"taskscan/internal/procmeta"
	"taskscan/internal/threadreg"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := config.ParseArgs(os.Args)
	if err != nil {
		return err
	}

	// Parse OTEL configuration from environment. Span export is optional:
	// without a configured endpoint the scan runs without telemetry.
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return err
	}

	var tracer trace.Tracer
	if otelCfg.Enabled() {
		tp, err := otel.InitProvider(otelCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize OTEL provider: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otel.ShutdownProvider(tp, shutdownCtx); err != nil {
				log.Printf("Error shutting down OTEL provider: %v", err)
			}
		}()
		tracer = tp.Tracer("taskscan")
	}

	var filter *procfilter.Filter
	if cfg.Filter != "" {
		filter, err = procfilter.Compile(cfg.Filter)
		if err != nil {
			return err
		}
	}

	tree := procfs.New()
	pids := cfg.PIDs
	if len(pids) == 0 {
		pids, err = tree.ListPIDs()
		if err != nil {
			return err
		}
	}

	s := &scanner{
		tree:             tree,
		registry:         threadreg.NewRegistry(),
		filter:           filter,
		tracer:           tracer,
		retryUntilStable: !cfg.Once,
	}

	ctx := context.Background()
	for _, pid := range pids {
		if err := s.scan(ctx, pid); err != nil {
			return err
		}
	}

	report(s.registry)
	return nil
}

// scanner walks one process at a time. Per-process failures are recorded in
// the registry so a whole-table scan survives processes exiting mid-scan;
// hard failures (wrong filesystem, broken filter expression) abort the run.
type scanner struct {
	tree             *procfs.Tree
	registry         *threadreg.Registry
	filter           *procfilter.Filter
	tracer           trace.Tracer
	retryUntilStable bool
}

func (s *scanner) scan(ctx context.Context, pid int) error {
	tgid, err := s.tree.Tgid(pid)
	if err != nil {
		return s.recordFailure(pid, err)
	}

	if s.filter != nil {
		md, err := procmeta.Collect(s.tree, pid)
		if err != nil {
			return s.recordFailure(tgid, err)
		}
		ok, err := s.filter.Match(pid, tgid, md)
		if err != nil {
			// A broken expression would fail for every process.
			return err
		}
		if !ok {
			return nil
		}
	}

	var span trace.Span
	if s.tracer != nil {
		_, span = s.tracer.Start(ctx, "taskscan.process",
			trace.WithAttributes(attribute.Int("process.pid", pid)))
	}

	err = s.tree.ForEachTID(pid, func(tid int) (bool, error) {
		s.registry.Record(tgid, tid)
		return true, nil
	}, s.retryUntilStable)

	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "thread enumeration failed")
		} else {
			span.SetAttributes(attribute.Int("process.thread_count",
				len(s.registry.TIDs(tgid))))
		}
		span.End()
	}

	if err != nil {
		return s.recordFailure(tgid, err)
	}
	return nil
}

// recordFailure keeps scanning across processes that cannot be read but
// refuses to continue on a compromised mount or an over-long path.
func (s *scanner) recordFailure(tgid int, err error) error {
	switch {
	case errors.Is(err, procfs.ErrWrongFilesystem),
		errors.Is(err, procfs.ErrPathTooLong),
		errors.Is(err, procfs.ErrInvalidPID):
		return err
	case errors.Is(err, fs.ErrNotExist):
		// The process exited between listing and scanning.
		return nil
	default:
		s.registry.SetError(tgid, err)
		return nil
	}
}

func report(registry *threadreg.Registry) {
	for _, tgid := range registry.TGIDs() {
		tids := registry.TIDs(tgid)
		fmt.Printf("%d: %d thread(s) %v\n", tgid, len(tids), tids)
		if err := registry.Err(tgid); err != nil {
			fmt.Printf("%d: scan incomplete: %v\n", tgid, err)
		}
	}
}
