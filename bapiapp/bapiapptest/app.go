// Package bapiapptest provides test helpers for bapiapp applications.
//
// It constructs the identical DI graph as [bapiapp.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	bapiapptest.SetBaseEnv(t, 18081)
//	app := bapiapptest.New[bapiapp.BaseEnvironment](t, routing)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package bapiapptest

import (
	"testing"

	"github.com/advdv/bapi/bapiapp"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing bapiapp applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [bapiapp.NewApp].
func New[E bapiapp.Environment](t testing.TB, routing any, opts ...bapiapp.Option) *App {
	return &App{App: fxtest.New(t, bapiapp.FxOptions[E](routing, opts...)...)}
}
