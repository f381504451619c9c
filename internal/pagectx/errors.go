package pagectx

import "errors"

var errNotAnIndex = errors.New("pagectx: not a numeric tab index")
