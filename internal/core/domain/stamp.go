package domain

import (
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

// Stamp is the packed software version recorded in a build cache:
// major<<24 | minor<<16 | patch<<8.
type Stamp uint32

// DevVersion is the version string of an unreleased build.
const DevVersion = "dev"

// NewStamp packs a version triple.
func NewStamp(major, minor, patch uint8) Stamp {
	return Stamp(uint32(major)<<24 | uint32(minor)<<16 | uint32(patch)<<8)
}

// StampFromVersion converts a semantic version such as "v1.2.3" or "1.2.3".
// Development builds have stamp 0.
func StampFromVersion(version string) (Stamp, error) {
	if version == "" || version == DevVersion {
		return 0, nil
	}
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return 0, zerr.With(zerr.Wrap(ErrInvalidVersion, "not a semantic version"), "version", version)
	}

	core, _, _ := strings.Cut(strings.TrimPrefix(semver.Canonical(v), "v"), "-")
	parts := strings.Split(core, ".")
	var nums [3]uint8
	for i := range nums {
		n, err := strconv.ParseUint(parts[i], 10, 8)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(ErrInvalidVersion, "version component out of range"),
				"version", version)
		}
		nums[i] = uint8(n)
	}
	return NewStamp(nums[0], nums[1], nums[2]), nil
}

// ParseStamp parses the hexadecimal form written by String.
func ParseStamp(s string) (Stamp, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 16, 32)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(ErrInvalidVersion, "malformed version stamp"), "stamp", s)
	}
	return Stamp(n), nil
}

// String returns the lowercase hexadecimal form, at least two digits wide.
func (s Stamp) String() string {
	return fmt.Sprintf("%02x", uint32(s))
}
