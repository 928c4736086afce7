package redisq

import (
	"math/rand"
	"sync"
	"time"
)

const tokenChars = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	tokenLock sync.Mutex
	tokenRand = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// randString returns a random string of n lowercase letters and digits,
// used as the token identifying the holder of a lock
func randString(n int) string {
	tokenLock.Lock()
	defer tokenLock.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenChars[tokenRand.Intn(len(tokenChars))]
	}
	return string(b)
}
