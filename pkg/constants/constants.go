package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	PoolKey         ContextKey = "pool"
	TxKey           ContextKey = "tx"
	LoggerKey       ContextKey = "logger"
	ParamsKey       ContextKey = "params"
	OperatorKey     ContextKey = "operator"
	RequestStart    ContextKey = "requestStart"
	RequestIDHeader            = "X-Request-ID"
)

// Validate is the process-wide validator instance. Field rules on DTOs and
// import rows all go through this one instance so custom validations are
// registered exactly once.
var Validate = validator.New(validator.WithRequiredStructEnabled())
