package chat

import (
	"github.com/foxseedlab/dove/internal/config"
	"github.com/foxseedlab/dove/internal/event"
	"github.com/foxseedlab/dove/internal/vault"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Controller, error) {
		cfg := do.MustInvoke[*config.Config](i)
		bus := do.MustInvoke[*event.Bus](i)
		tokens := do.MustInvoke[*vault.Vault](i)
		return NewController(bus, bus, tokens, cfg.DefaultChannelID), nil
	})
}
