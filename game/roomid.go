package game

import (
	"crypto/rand"
	"strings"
)

// Alphabet for room ids. I, O, 0 and 1 are left out so the code survives
// being read over voice chat.
const roomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const roomIDGroupLen = 5

// NewRoomID returns a shareable code of the form XXXXX-XXXXX drawn from
// crypto/rand so ids cannot be guessed.
func NewRoomID() string {
	buf := make([]byte, roomIDGroupLen*2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}

	var b strings.Builder
	b.Grow(roomIDGroupLen*2 + 1)
	for i, c := range buf {
		if i == roomIDGroupLen {
			b.WriteByte('-')
		}
		b.WriteByte(roomIDAlphabet[int(c)%len(roomIDAlphabet)])
	}
	return b.String()
}
