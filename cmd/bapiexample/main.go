// Command bapiexample runs the example API.
package main

import (
	"github.com/advdv/bapi/bapiapp"
	"github.com/advdv/bapi/internal/example"
	"go.uber.org/fx"
)

func main() {
	bapiapp.NewApp[example.Env](example.Routing,
		bapiapp.WithFx(fx.Provide(example.NewHandlers)),
	).Run()
}
