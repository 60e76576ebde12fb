package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Taipei")
	if err != nil {
		panic(err)
	}
}

// the MOE portal reports statistics on Taiwan time and our deploy
// hosts are not guaranteed to be there, so every timestamp we show or
// persist must go through a pinned location
func Now() time.Time {
	return time.Now().In(Location)
}
