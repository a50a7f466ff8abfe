package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/colseg/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Zipf returns a Zipfian-distributed value in [0, n).
// P(k) ∝ 1/k^s; s=1.0 gives standard Zipf, larger s skews harder.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

// Ordinals returns n values in [0, cardinality) drawn with Zipf skew s.
// Every value in range occurs at least once when n >= cardinality.
func (r *RNG) Ordinals(n, cardinality int, s float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, n)
	for i := range out {
		if i < cardinality {
			out[i] = i
			continue
		}
		out[i] = r.zipfLocked(cardinality, s)
	}
	r.rand.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Values returns n values of dt with the given cardinality.
func (r *RNG) Values(dt model.DataType, n, cardinality int) []model.Value {
	ords := r.Ordinals(n, cardinality, 1.1)
	out := make([]model.Value, n)
	for i, o := range ords {
		out[i] = SyntheticValue(dt, o)
	}
	return out
}

// MultiValues returns n documents holding 1..maxPerDoc distinct values of
// dt drawn from a domain of the given cardinality.
func (r *RNG) MultiValues(dt model.DataType, n, cardinality, maxPerDoc int) [][]model.Value {
	out := make([][]model.Value, n)
	for d := range out {
		k := 1 + r.Intn(min(maxPerDoc, cardinality))
		seen := make(map[int]struct{}, k)
		for len(out[d]) < k {
			o := r.Intn(cardinality)
			if _, dup := seen[o]; dup {
				continue
			}
			seen[o] = struct{}{}
			out[d] = append(out[d], SyntheticValue(dt, o))
		}
	}
	return out
}

// SyntheticValue returns the i-th value of a deterministic domain of dt.
// Values are strictly increasing in i.
func SyntheticValue(dt model.DataType, i int) model.Value {
	switch dt {
	case model.TypeInt:
		return model.Int(int32(i*7 - 1000))
	case model.TypeLong:
		return model.Long(int64(i)*1_000_003 - 1<<40)
	case model.TypeFloat:
		return model.Float(float32(i)*0.5 - 100)
	case model.TypeDouble:
		return model.Double(float64(i)*0.25 - 1e6)
	case model.TypeString:
		return model.String(fmt.Sprintf("v%06d", i))
	case model.TypeBytes:
		return model.Bytes([]byte{byte(i >> 16), byte(i >> 8), byte(i), 0x7f})
	default:
		return model.Value{}
	}
}
