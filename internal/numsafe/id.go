// Package numsafe keeps 64-bit identifiers and other oversized integers intact
// across JSON, query strings and string-typed storage. Clients decode numbers
// as IEEE-754 doubles, so anything beyond 2^53-1 travels as a decimal string.
package numsafe

import (
	"bytes"
	"crypto/rand"
	"database/sql/driver"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

var ErrInvalidID = errors.New("invalid id")

// ID is an opaque 64-bit identifier carried as its decimal string form.
// It is the only way report ids are constructed, compared and serialized.
type ID string

const (
	randomBits = 22
	randomMask = 1<<randomBits - 1

	// Milliseconds since idEpoch fill the remaining 41 bits, which lasts
	// until about 2093.
	timestampBits = 63 - randomBits
	maxElapsed    = 1<<timestampBits - 1
)

// idEpoch is 2024-01-01T00:00:00Z in Unix milliseconds.
const idEpoch int64 = 1704067200000

var (
	idMu   sync.Mutex
	lastID uint64
)

// NewID returns a time-ordered 63-bit id: milliseconds since 2024-01-01
// shifted left by 22 bits, with the low bits random. Any id generated after
// 2024-01-25 is above 2^53.
func NewID() ID {
	var b [8]byte
	_, _ = rand.Read(b[:])

	idMu.Lock()
	defer idMu.Unlock()

	v := composeID(time.Now().UnixMilli(), binary.BigEndian.Uint64(b[:]))
	if v <= lastID {
		v = lastID + 1
	}
	lastID = v

	return ID(strconv.FormatUint(v, 10))
}

func composeID(unixMilli int64, random uint64) uint64 {
	elapsed := unixMilli - idEpoch
	switch {
	case elapsed < 0:
		elapsed = 0
	case elapsed > maxElapsed:
		elapsed = maxElapsed
	}
	return uint64(elapsed)<<randomBits | random&randomMask
}

// ParseID trims incidental whitespace and validates a decimal identifier.
// The value is never converted to a number.
func ParseID(raw string) (ID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if len(s) > 20 {
		return "", fmt.Errorf("%w: too long", ErrInvalidID)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", fmt.Errorf("%w: %q is not a decimal integer", ErrInvalidID, raw)
		}
	}
	return ID(s), nil
}

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON string or a bare JSON integer. Bare
// integers are taken from their literal text so no precision is lost.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		err := json.Unmarshal(data, &raw)
		if err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	parsed, err := ParseID(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Scan implements sql.Scanner. Drivers that hand back integer columns are
// formatted in base 10 rather than passed through a float.
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*id = ""
	case string:
		*id = ID(v)
	case []byte:
		*id = ID(string(v))
	case int64:
		*id = ID(strconv.FormatInt(v, 10))
	default:
		return fmt.Errorf("numsafe: cannot scan %T into ID", src)
	}
	return nil
}

// Value implements driver.Valuer; ids are always stored as text.
func (id ID) Value() (driver.Value, error) {
	return string(id), nil
}
