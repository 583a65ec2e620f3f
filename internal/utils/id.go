package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// NewID mints an opaque unique id with a readable prefix, e.g.
// "bkg_1714989125000123_48213". Uniqueness only needs to hold within one
// snapshot document.
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), rand.Intn(100000))
}

// PickColor deterministically assigns a palette color from a name, so
// imported entities get stable colors without user input.
func PickColor(palette []string, name string) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[int(HashStringToUint64(name)%uint64(len(palette)))]
}
