package fingerprint

import (
	"github.com/foxseedlab/dove/internal/fingerprint"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (fingerprint.Provider, error) {
		return NewProbe(), nil
	})
}
