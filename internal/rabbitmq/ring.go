package rabbitmq

import (
	"hash/fnv"
	"sort"
)

type ringPoint struct {
	hash  uint64
	owner int
}

// Ring maps partition keys onto partitions with consistent hashing and virtual nodes,
// so growing the partition count only moves a fraction of the keys.
type Ring struct {
	points   []ringPoint
	replicas int
}

func NewRing(partitions int, replicas int) *Ring {
	if replicas <= 0 {
		replicas = 100
	}
	if partitions <= 0 {
		partitions = 1
	}

	r := &Ring{replicas: replicas}
	owners := make([]int, partitions)
	for i := range owners {
		owners[i] = i
	}
	r.build(owners)

	return r
}

func (r *Ring) build(partitions []int) {
	pts := make([]ringPoint, 0, len(partitions)*r.replicas)
	for _, p := range partitions {
		for v := 0; v < r.replicas; v++ {
			// golden-ratio multiplier spreads sequential seeds before mixing
			seed := (uint64(p)+1)*0x9e3779b97f4a7c15 + uint64(v)
			pts = append(pts, ringPoint{hash: mix64(seed), owner: p})
		}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].hash < pts[j].hash })
	r.points = pts
}

// Partition returns the partition owning key.
func (r *Ring) Partition(key string) int {
	if len(r.points) == 0 {
		return 0
	}

	h := hashKey(key)
	i := sort.Search(len(r.points), func(i int) bool { return r.points[i].hash >= h })
	if i == len(r.points) {
		i = 0
	}
	return r.points[i].owner
}

func hashKey(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return mix64(h.Sum64())
}

// mix64 is the fmix64 finalizer from MurmurHash3.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
