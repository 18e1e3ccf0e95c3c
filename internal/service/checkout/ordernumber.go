package checkout

import (
	"fmt"
	"strconv"
	"time"
)

// OrderNumber builds "CC-YYYYMMDD-NNNNNN" from the given clock reading: date
// prefix plus the trailing six digits of the nanosecond timestamp. Collisions
// are possible; the unique index on orders.order_number is the authoritative
// guarantee and callers regenerate with a fresh reading when it fires.
func OrderNumber(now time.Time) string {
	ts := strconv.FormatInt(now.UnixNano(), 10)
	return fmt.Sprintf("CC-%s-%s", now.Format("20060102"), ts[len(ts)-6:])
}
