package session

import (
	"github.com/foxseedlab/dove/internal/discord"
	"github.com/foxseedlab/dove/internal/event"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		bus := do.MustInvoke[*event.Bus](i)
		newClient := do.MustInvoke[discord.ClientFactory](i)
		return NewManager(bus, newClient), nil
	})
}
