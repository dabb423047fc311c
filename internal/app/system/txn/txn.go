// internal/app/system/txn/txn.go
package txn

// Multi-document mutations (approve, accept, reset, delete role) run through
// WithTransaction. On servers without transaction support (standalone mongod,
// no replica set) the callback is re-run outside a session so the writes land
// sequentially in their documented order.

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone deployment, old wire version).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if ce, ok := err.(mongo.CommandError); ok {
		cmdErr = ce
	}
	switch cmdErr.Code {
	case 20, 51, 263: // IllegalOperation / transaction numbers / API version
		return true
	}

	msg := strings.ToLower(err.Error())
	has := func(kw string) bool { return strings.Contains(msg, kw) }

	if has("transaction") && (has("replica set") || has("session") || has("illegal operation")) {
		return true
	}
	if has("session") && has("not supported") {
		return true
	}
	return false
}

// WithTransaction runs fn inside a mongo transaction when the deployment
// supports one, and falls back to running fn with the plain context when it
// does not. fn must be safe to re-run from scratch on the fallback path.
func WithTransaction(ctx context.Context, client *mongo.Client, logger *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logger.Debug("sessions unavailable, running writes sequentially", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logger.Debug("transactions unavailable, running writes sequentially", zap.Error(err))
		return fn(ctx)
	}
	return err
}
