//go:build darwin

package credentials

import "go.uber.org/zap"

func platformSource(logger *zap.Logger) Source {
	return keychainSource{runner: execRunner{}, logger: logger}
}
