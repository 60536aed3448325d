package server

import "errors"

var (
	ErrNotFound          = errors.New("server: not found")
	ErrDuplicateName     = errors.New("server: name already in use")
	ErrDuplicateHostPort = errors.New("server: (host, port) already in use")
	ErrNoAccessKey       = errors.New("server: no access key configured")
	ErrInvalidAccessKey  = errors.New("server: invalid access key")
)
