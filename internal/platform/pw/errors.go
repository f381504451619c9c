package pw

import "errors"

var errNilDragTarget = errors.New("pw: drag target locator is not a playwright locator")
