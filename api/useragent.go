package api

import (
	"math/rand/v2"
	"sync/atomic"
)

// UserAgentPicker returns the User-Agent header for the next request.
type UserAgentPicker func() string

var userAgents = [...]string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
}

// UserAgents returns a copy of the built-in pool.
func UserAgents() []string {
	return append([]string(nil), userAgents[:]...)
}

// RandomUserAgent picks a user-agent from the pool at random.
func RandomUserAgent() string {
	return userAgents[rand.IntN(len(userAgents))]
}

// RotatingUserAgent cycles through the pool in order. Useful where
// deterministic output is needed.
func RotatingUserAgent() UserAgentPicker {
	var n atomic.Uint64
	return func() string {
		i := n.Add(1) - 1
		return userAgents[i%uint64(len(userAgents))]
	}
}
