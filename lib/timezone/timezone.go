package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Australia/Sydney")
	if err != nil {
		panic(err)
	}
}

// force club-local time regardless of where the host runs, since the
// schedule windows and event dates are all expressed in the club's
// timezone and things drift when the server lands in another region
func Now() time.Time {
	return time.Now().In(Location)
}
