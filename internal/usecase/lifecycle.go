package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"lemiknow/internal/domain/model"
	"lemiknow/internal/domain/ports"
)

const unknownHost = "unknown"

// LifecycleNotifier reports the start, success and failure of wrapped operations through a transport.
// A single notifier may wrap any number of operations.
type LifecycleNotifier struct {
	transport ports.Transport
	cfg       model.NotificationConfig
	clock     ports.Clock
	host      ports.HostResolver
	logger    ports.Logger
}

// Option customises a LifecycleNotifier.
type Option func(*LifecycleNotifier)

// WithClock replaces the wall clock used to timestamp invocations.
func WithClock(clock ports.Clock) Option {
	return func(n *LifecycleNotifier) {
		if clock != nil {
			n.clock = clock
		}
	}
}

// WithHostResolver replaces the host name lookup.
func WithHostResolver(host ports.HostResolver) Option {
	return func(n *LifecycleNotifier) {
		if host != nil {
			n.host = host
		}
	}
}

// WithLogger sets the logger used for invocation events and swallowed delivery failures.
func WithLogger(logger ports.Logger) Option {
	return func(n *LifecycleNotifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewLifecycleNotifier constructs a LifecycleNotifier. The config is not
// validated here; every invocation validates it.
func NewLifecycleNotifier(transport ports.Transport, cfg model.NotificationConfig, opts ...Option) *LifecycleNotifier {
	n := &LifecycleNotifier{
		transport: transport,
		cfg:       cfg,
		clock:     wallClock{},
		host:      osHost{},
		logger:    nopLogger{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Config returns the notification config captured at construction.
func (n *LifecycleNotifier) Config() model.NotificationConfig {
	return n.cfg
}

// Run invokes op under notification. The returned value and error are
// exactly those of op. A panic in op is reported and then re-panicked
// with the original value.
func (n *LifecycleNotifier) Run(ctx context.Context, name string, op func(context.Context) (any, error)) (any, error) {
	if err := n.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	rec := &model.InvocationRecord{
		Operation: name,
		Host:      n.hostname(ctx),
		StartedAt: n.clock.Now(),
	}

	if err := n.deliver(ctx, startMessage(rec, n.cfg)); err != nil {
		return nil, asDeliveryError(err)
	}
	n.logger.Info(ctx, "operation started", "operation", name, "host", rec.Host)

	// Terminal messages still go out when op was cancelled.
	terminalCtx := context.WithoutCancel(ctx)

	res := invoke(ctx, op)
	switch {
	case res.panicked:
		rec.Fail(n.clock.Now(), fmt.Sprint(res.recovered), res.stack)
		n.finish(terminalCtx, rec, failureMessage(rec))
		panic(res.recovered)
	case res.err != nil:
		rec.Fail(n.clock.Now(), res.err.Error(), errorTrace(res.err)+"\n"+string(debug.Stack()))
		n.finish(terminalCtx, rec, failureMessage(rec))
		return res.value, res.err
	}

	rec.Succeed(n.clock.Now(), "")
	if !n.cfg.NotifyOnCompletion {
		n.logger.Info(ctx, "operation finished", "operation", name, "duration", rec.Elapsed())
		return res.value, nil
	}

	rec.Returned = stringify(res.value)
	n.finish(terminalCtx, rec, successMessage(rec))
	return res.value, nil
}

type opResult struct {
	value     any
	err       error
	panicked  bool
	recovered any
	stack     string
}

// invoke runs op, capturing a panic and the stack at the panic site.
// Only op is covered; panics raised while notifying are handled by deliver.
func invoke(ctx context.Context, op func(context.Context) (any, error)) (res opResult) {
	defer func() {
		if r := recover(); r != nil {
			res = opResult{panicked: true, recovered: r, stack: string(debug.Stack())}
		}
	}()
	res.value, res.err = op(ctx)
	return res
}

// deliver sends text, turning a panicking transport into a delivery error.
func (n *LifecycleNotifier) deliver(ctx context.Context, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = model.NewDeliveryError("transport", fmt.Errorf("transport panicked: %v", r))
		}
	}()
	return n.transport.Send(ctx, text)
}

// finish sends a terminal message. Delivery failures are logged and never
// replace the operation's own outcome.
func (n *LifecycleNotifier) finish(ctx context.Context, rec *model.InvocationRecord, text string) {
	if err := n.deliver(ctx, text); err != nil {
		n.logger.Error(ctx, "failed to deliver terminal notification",
			"operation", rec.Operation, "outcome", rec.Outcome.String(), "error", err)
	}
	if rec.Outcome == model.OutcomeFailure {
		n.logger.Error(ctx, "operation crashed", "operation", rec.Operation, "duration", rec.Elapsed(), "error", rec.ErrorText)
		return
	}
	n.logger.Info(ctx, "operation finished", "operation", rec.Operation, "duration", rec.Elapsed())
}

func (n *LifecycleNotifier) hostname(ctx context.Context) string {
	name, err := n.host.Hostname()
	if err != nil || strings.TrimSpace(name) == "" {
		n.logger.Warn(ctx, "host name lookup failed", "error", err)
		return unknownHost
	}
	return name
}

// Wrap returns op instrumented by n. An empty name is derived from op's function name.
func Wrap[T any](n *LifecycleNotifier, name string, op func(context.Context) (T, error)) func(context.Context) (T, error) {
	if name == "" {
		name = OperationName(op)
	}
	return func(ctx context.Context) (T, error) {
		var zero T
		value, err := n.Run(ctx, name, func(ctx context.Context) (any, error) {
			return op(ctx)
		})
		if value == nil {
			return zero, err
		}
		return value.(T), err
	}
}

// WrapFunc is Wrap for operations that only return an error. Success
// notifications report the returned value as <nil>.
func WrapFunc(n *LifecycleNotifier, name string, op func(context.Context) error) func(context.Context) error {
	if name == "" {
		name = OperationName(op)
	}
	return func(ctx context.Context) error {
		_, err := n.Run(ctx, name, func(ctx context.Context) (any, error) {
			return nil, op(ctx)
		})
		return err
	}
}

// OperationName returns the short name of the function fn, e.g. "main.train"
// becomes "train" and a method value becomes "(*T).Method". Closures keep
// their generated suffix.
func OperationName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "operation"
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "operation"
	}
	full := f.Name()
	if idx := strings.LastIndex(full, "/"); idx >= 0 {
		full = full[idx+1:]
	}
	if idx := strings.Index(full, "."); idx >= 0 {
		full = full[idx+1:]
	}
	return strings.TrimSuffix(full, "-fm")
}

func asDeliveryError(err error) error {
	var delivery *model.DeliveryError
	if errors.As(err, &delivery) {
		return err
	}
	return model.NewDeliveryError("transport", err)
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

type osHost struct{}

func (osHost) Hostname() (string, error) { return os.Hostname() }

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
