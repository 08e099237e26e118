package vault

import (
	"github.com/foxseedlab/dove/internal/config"
	"github.com/foxseedlab/dove/internal/fingerprint"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Vault, error) {
		cfg := do.MustInvoke[*config.Config](i)
		fp := do.MustInvoke[fingerprint.Provider](i)
		return New(fp, cfg.TokenFilePath()), nil
	})
}
