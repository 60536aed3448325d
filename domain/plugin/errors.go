package plugin

import "errors"

var (
	ErrUnknownVersion  = errors.New("plugin: unknown plugin version")
	ErrChecksumMismatch = errors.New("plugin: checksum mismatch")
)
