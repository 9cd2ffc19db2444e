// Package sim is the deterministic health-data generation engine. It is
// pure and stateless: every call takes all of its context as parameters,
// threads its own RNG, and produces fresh immutable values.
package sim

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// seedDomain separates this engine's seed space from any other consumer
// that might hash the same (user, date) key.
const seedDomain = "health-simulator/seed/v1"

// Rand is the per-call pseudo-random stream. Every generator holds and
// threads its own instance; there is no global RNG state anywhere in the
// engine.
type Rand struct {
	src *rand.Rand
}

// Seed derives a reproducible RNG for one (user, calendar day) pair.
// Identical inputs always yield an identical stream.
//
// The hash mixes a domain-separation constant, the raw user UUID bytes,
// the explicit (year, month, day) tuple, and the days-since-epoch index.
// Hashing the tuple and the day index together keeps adjacent days far
// apart in the seed space, which raw epoch seconds do not guarantee.
func Seed(userID uuid.UUID, date time.Time) *Rand {
	h := fnv.New64a()
	h.Write([]byte(seedDomain))
	h.Write(userID[:])

	y, m, d := date.UTC().Date()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(y))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(m))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(d))
	h.Write(buf[:])

	dayIndex := Midnight(date).Unix() / 86400
	binary.BigEndian.PutUint64(buf[:], uint64(dayIndex))
	h.Write(buf[:])

	return &Rand{src: rand.New(rand.NewSource(int64(h.Sum64())))}
}

// IntBetween returns a uniform int in [lo, hi], both ends inclusive.
func (r *Rand) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.src.Intn(hi-lo+1)
}

// Float64Between returns a uniform float64 in [lo, hi).
func (r *Rand) Float64Between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.src.Float64()*(hi-lo)
}

// DurationBetween returns a uniform duration in [lo, hi], rounded to
// whole seconds.
func (r *Rand) DurationBetween(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	d := lo + time.Duration(r.src.Int63n(int64(hi-lo)+1))
	return d.Round(time.Second)
}

// Bool returns true with probability p.
func (r *Rand) Bool(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.src.Float64() < p
}

// Midnight truncates t to 00:00 UTC of its calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.UTC().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
