//go:build linux

package credentials

import "go.uber.org/zap"

func platformSource(logger *zap.Logger) Source {
	return fileSource{path: defaultCredentialsPath(), logger: logger}
}
