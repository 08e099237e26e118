package discord

import (
	discordpkg "github.com/foxseedlab/dove/internal/discord"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.ProvideValue(injector, discordpkg.ClientFactory(NewClient))
}
