package quantize

import (
	"math"

	"github.com/jsphweid/notegrid/constants"
	"github.com/jsphweid/notegrid/util"
)

// Snap moves x to the nearest multiple of q. Halfway values round to the
// even multiple, so 0.125 on a 0.25 grid becomes 0 and 0.375 becomes 0.5.
func Snap(x, q float64) float64 {
	return math.RoundToEven(x/q) * q
}

// Floor snaps a duration and keeps it at least one quantum long.
func Floor(d, q float64) float64 {
	return util.Max(q, Snap(util.Max(constants.MinRawDuration, d), q))
}
