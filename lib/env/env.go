package env

import (
	"os"
	"strconv"
)

func Debug() bool {
	return os.Getenv("DEBUG") != ""
}

// Timeout returns the number of seconds in $TEFCHA_TIMEOUT, if set and valid.
func Timeout() (int, bool) {
	if s := os.Getenv("TEFCHA_TIMEOUT"); s != "" {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return int(i), true
		}
	}
	return -1, false
}
