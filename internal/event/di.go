package event

import (
	"github.com/foxseedlab/dove/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Bus, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewBus(cfg.EventBufferSize), nil
	})
}
