package sql

import (
	"context"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syssam/boxql/dialect"
)

// observeFunc is called once a statement returned. op is "query" or "exec"
// for statements, "commit" or "rollback" for transaction ends.
type observeFunc func(ctx context.Context, op, query string, args any, took time.Duration, err error)

// observer reports every statement sent through an ExecQuerier.
type observer struct {
	dialect.ExecQuerier
	fn observeFunc
}

func (o observer) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := o.ExecQuerier.Query(ctx, query, args, v)
	o.fn(ctx, "query", query, args, time.Since(start), err)
	return err
}

func (o observer) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := o.ExecQuerier.Exec(ctx, query, args, v)
	o.fn(ctx, "exec", query, args, time.Since(start), err)
	return err
}

// observedTx is a transaction whose statements and end are reported. Its end
// is reported with the context the transaction was started with.
type observedTx struct {
	observer
	ctx context.Context
	tx  driver.Tx
}

func observeTx(ctx context.Context, tx dialect.Tx, fn observeFunc) dialect.Tx {
	return &observedTx{observer: observer{ExecQuerier: tx, fn: fn}, ctx: ctx, tx: tx}
}

func (t *observedTx) Commit() error {
	err := t.tx.Commit()
	t.fn(t.ctx, "commit", "", nil, 0, err)
	return err
}

func (t *observedTx) Rollback() error {
	err := t.tx.Rollback()
	t.fn(t.ctx, "rollback", "", nil, 0, err)
	return err
}

// QueryStats counts the statements sent through a StatsDriver. It is safe
// for concurrent use.
type QueryStats struct {
	queries atomic.Int64
	execs   atomic.Int64
	slow    atomic.Int64
	errors  atomic.Int64
	elapsed atomic.Int64 // nanoseconds
}

// Snapshot returns the current counters.
func (s *QueryStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Queries: s.queries.Load(),
		Execs:   s.execs.Load(),
		Slow:    s.slow.Load(),
		Errors:  s.errors.Load(),
		Elapsed: time.Duration(s.elapsed.Load()),
	}
}

// Reset sets all counters to zero.
func (s *QueryStats) Reset() {
	for _, c := range []*atomic.Int64{&s.queries, &s.execs, &s.slow, &s.errors, &s.elapsed} {
		c.Store(0)
	}
}

// StatsSnapshot is a point-in-time copy of QueryStats.
type StatsSnapshot struct {
	Queries int64
	Execs   int64
	Slow    int64
	Errors  int64
	Elapsed time.Duration
}

// Avg returns the mean duration of a statement.
func (s StatsSnapshot) Avg() time.Duration {
	n := s.Queries + s.Execs
	if n == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(n)
}

// String returns a one-line summary.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d slow=%d errors=%d elapsed=%s avg=%s",
		s.Queries, s.Execs, s.Slow, s.Errors, s.Elapsed, s.Avg())
}

// LogValue implements slog.LogValuer.
func (s StatsSnapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("queries", s.Queries),
		slog.Int64("execs", s.Execs),
		slog.Int64("slow", s.Slow),
		slog.Int64("errors", s.Errors),
		slog.Duration("elapsed", s.Elapsed),
	)
}

// SlowQueryHook is called for every statement slower than the threshold of
// a StatsDriver.
type SlowQueryHook func(ctx context.Context, query string, args []any, took time.Duration)

// StatsDriver is a Driver that counts the statements it sends, including
// those sent within its transactions.
type StatsDriver struct {
	*Driver
	stats     *QueryStats
	threshold time.Duration
	hook      SlowQueryHook
}

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement is counted
// as slow. The default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.threshold = d
	}
}

// WithSlowQueryHook sets the function called for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.hook = hook
	}
}

// WithSlowQueryLogger logs slow statements to logger at warn level.
func WithSlowQueryLogger(logger *slog.Logger) StatsOption {
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, took time.Duration) {
		logger.WarnContext(ctx, "slow statement", "sql", query, "args", args, "took", took)
	})
}

// NewStatsDriver wraps drv with statement counting.
//
//	drv := sql.NewStatsDriver(base, sql.WithSlowQueryLogger(logger))
//	u, err := sqlgraph.SaveChanges(ctx, drv, Users, UserID, rec, sqlgraph.ScanStruct[User])
//	logger.Info("done", "stats", drv.QueryStats().Snapshot())
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	d := &StatsDriver{
		Driver:    drv,
		stats:     &QueryStats{},
		threshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// QueryStats returns the live counters of the driver.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// Query runs a query and counts it.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	return observer{d.Driver, d.record}.Query(ctx, query, args, v)
}

// Exec runs a statement and counts it.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	return observer{d.Driver, d.record}.Exec(ctx, query, args, v)
}

// Tx starts a transaction whose statements are counted.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return observeTx(ctx, tx, d.record), nil
}

func (d *StatsDriver) record(ctx context.Context, op, query string, args any, took time.Duration, err error) {
	switch op {
	case "query":
		d.stats.queries.Add(1)
	case "exec":
		d.stats.execs.Add(1)
	default:
		return
	}
	d.stats.elapsed.Add(int64(took))
	if err != nil {
		d.stats.errors.Add(1)
	}
	if took > d.threshold {
		d.stats.slow.Add(1)
		if d.hook != nil {
			vs, _ := args.([]any)
			d.hook(ctx, query, vs, took)
		}
	}
}

// DebugDriver is a Driver that logs every statement it sends, and the
// boundaries of its transactions, at debug level.
type DebugDriver struct {
	*Driver
	logger *slog.Logger
}

// NewDebugDriver wraps drv with statement logging. A nil logger logs to
// slog.Default().
func NewDebugDriver(drv *Driver, logger *slog.Logger) *DebugDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugDriver{Driver: drv, logger: logger}
}

// Query runs a query and logs it.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	return observer{d.Driver, d.log}.Query(ctx, query, args, v)
}

// Exec runs a statement and logs it.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	return observer{d.Driver, d.log}.Exec(ctx, query, args, v)
}

// Tx starts a transaction whose statements are logged.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	d.log(ctx, "begin", "", nil, 0, err)
	if err != nil {
		return nil, err
	}
	return observeTx(ctx, tx, d.log), nil
}

func (d *DebugDriver) log(ctx context.Context, op, query string, args any, took time.Duration, err error) {
	attrs := make([]any, 0, 8)
	if query != "" {
		attrs = append(attrs, "sql", query, "args", args, "took", took)
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	d.logger.DebugContext(ctx, op, attrs...)
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*observedTx)(nil)
)
