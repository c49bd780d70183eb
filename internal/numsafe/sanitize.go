package numsafe

import (
	"encoding/json"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// MaxSafeInteger is the largest integer a double represents exactly (2^53-1).
const MaxSafeInteger = 1<<53 - 1

var (
	maxSafeBig = big.NewInt(MaxSafeInteger)
	minSafeBig = big.NewInt(-MaxSafeInteger)
	timeType   = reflect.TypeOf(time.Time{})
)

// Sanitize walks v and replaces every integer outside the safe range with its
// exact decimal string. Maps, slices and arrays are walked recursively and
// rebuilt as map[string]any / []any; times, nil and in-range numbers, strings
// and booleans are returned unchanged.
func Sanitize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time, *time.Time:
		return x
	case json.Number:
		return sanitizeNumber(x)
	case *big.Int:
		if x == nil {
			return nil
		}
		return sanitizeBig(x)
	case big.Int:
		return sanitizeBig(&x)
	case int64:
		if x > MaxSafeInteger || x < -MaxSafeInteger {
			return strconv.FormatInt(x, 10)
		}
		return x
	case uint64:
		if x > MaxSafeInteger {
			return strconv.FormatUint(x, 10)
		}
		return x
	case int:
		if int64(x) > MaxSafeInteger || int64(x) < -MaxSafeInteger {
			return strconv.Itoa(x)
		}
		return x
	case uint:
		if uint64(x) > MaxSafeInteger {
			return strconv.FormatUint(uint64(x), 10)
		}
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Sanitize(val)
		}
		return out
	}

	return sanitizeReflect(v)
}

// sanitizeReflect handles typed containers (e.g. []int64, map[string]uint64)
// that the fast path above does not match.
func sanitizeReflect(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return v
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v // []byte
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Sanitize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Sanitize(iter.Value().Interface())
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return v
		}
		if rv.Elem().Type() == timeType {
			return v
		}
		return Sanitize(rv.Elem().Interface())
	case reflect.Int, reflect.Int64:
		if n := rv.Int(); n > MaxSafeInteger || n < -MaxSafeInteger {
			return strconv.FormatInt(n, 10)
		}
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		if n := rv.Uint(); n > MaxSafeInteger {
			return strconv.FormatUint(n, 10)
		}
	}
	return v
}

func sanitizeBig(x *big.Int) any {
	if x.Cmp(maxSafeBig) > 0 || x.Cmp(minSafeBig) < 0 {
		return x.String()
	}
	return x.Int64()
}

// sanitizeNumber converts integral json.Numbers beyond the safe range to
// strings. Fractional and exponent forms are left alone.
func sanitizeNumber(n json.Number) any {
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		return n
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return n
	}
	if b.Cmp(maxSafeBig) > 0 || b.Cmp(minSafeBig) < 0 {
		return b.String()
	}
	return n
}
