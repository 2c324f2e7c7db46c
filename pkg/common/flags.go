package common

import (
	"fmt"
	"strconv"

	"github.com/levenlabs/go-lflag"
)

// Float64 registers a flag holding a float64. The returned pointer is only
// populated once lflag.Configure has run, so it must be read inside a later
// lflag.Do or after configuration.
func Float64(name string, defaultValue float64, usage string) *float64 {
	raw := lflag.String(name, strconv.FormatFloat(defaultValue, 'f', -1, 64), usage)
	v := new(float64)
	lflag.Do(func() {
		f, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			panic(fmt.Sprintf("invalid value for --%s (%q): %v", name, *raw, err))
		}
		*v = f
	})
	return v
}

// Int registers a flag holding an int with the same semantics as Float64.
func Int(name string, defaultValue int, usage string) *int {
	raw := lflag.String(name, strconv.Itoa(defaultValue), usage)
	v := new(int)
	lflag.Do(func() {
		i, err := strconv.Atoi(*raw)
		if err != nil {
			panic(fmt.Sprintf("invalid value for --%s (%q): %v", name, *raw, err))
		}
		*v = i
	})
	return v
}
