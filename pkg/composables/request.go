package composables

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/crewdir/crewdir/pkg/constants"
)

var ErrNoLogger = errors.New("logger not found")

type Params struct {
	IP        string
	UserAgent string
	RequestID string
	Request   *http.Request
	Writer    http.ResponseWriter
}

// UseParams returns the request parameters from the context.
// If the parameters are not found, the second return value will be false.
func UseParams(ctx context.Context) (*Params, bool) {
	params, ok := ctx.Value(constants.ParamsKey).(*Params)
	return params, ok
}

// WithParams returns a new context with the request parameters.
func WithParams(ctx context.Context, params *Params) context.Context {
	return context.WithValue(ctx, constants.ParamsKey, params)
}

// UseLogger returns the request-scoped logger from the context.
// Panics when no logging middleware installed one.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		panic(ErrNoLogger)
	}
	return logger.(*logrus.Entry)
}

// TryUseLogger is UseLogger without the panic, for code paths that may run
// outside an HTTP request (CLI, tests).
func TryUseLogger(ctx context.Context) (*logrus.Entry, bool) {
	logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	return logger, ok
}

// WithLogger returns a new context carrying the given logger entry.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// Operator identifies the authenticated administrative user asserted by the
// external identity layer.
type Operator struct {
	Subject string
	Email   string
}

func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, constants.OperatorKey, op)
}

func UseOperator(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(constants.OperatorKey).(Operator)
	return op, ok
}
