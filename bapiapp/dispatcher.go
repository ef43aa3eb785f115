package bapiapp

import (
	"github.com/advdv/bapi"
	"go.uber.org/zap"
)

// NewDispatcher creates the app's dispatcher. Unhandled errors are logged through zap and, at
// debug level, so is every lifecycle transition.
func NewDispatcher(logger *zap.Logger) *bapi.Dispatcher {
	disp := bapi.NewDispatcherWith(newZapLogger(logger), bapi.NewRouter(), bapi.NewErrorRegistry())
	disp.Observe(logStates(logger))
	return disp
}
