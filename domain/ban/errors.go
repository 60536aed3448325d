package ban

import "errors"

var ErrNotFound = errors.New("ban: not found")
