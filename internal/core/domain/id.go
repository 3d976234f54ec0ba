package domain

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"
	"time"
)

// ID prefixes for system-generated identifiers.
const (
	GroupIDPrefix  = "DC"
	TicketIDPrefix = "TK"
)

// NewID returns an identifier in the form PREFIX-<base36 unix-nano>-<base36
// random>, uppercased. The timestamp component keeps ids roughly sortable;
// the random component makes collisions improbable without a central
// counter. Uniqueness is best-effort and additionally backed by a unique
// index on the store side.
func NewID(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixNano(), 36)

	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// fallback: reuse low bits of the clock
		binary.BigEndian.PutUint32(b[:], uint32(time.Now().UnixNano()))
	}
	suffix := strconv.FormatUint(uint64(binary.BigEndian.Uint32(b[:])), 36)

	return strings.ToUpper(prefix + "-" + ts + "-" + suffix)
}
