package particle

import "hash/fnv"

// NameHash hashes a string identifier to a uint64 with FNV-1a, the hash the
// teacher's ECS uses for archetype keys (ecs.go), and the way spec.md's
// name_hash and animation_name fields are expressed.
func NameHash(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}
