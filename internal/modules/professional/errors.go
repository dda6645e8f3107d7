package professional

import "errors"

var ErrProfileNotFound = errors.New("professional profile not found")
