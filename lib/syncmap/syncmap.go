// Package syncmap is a typed wrapper around sync.Map.
package syncmap

import "sync"

type SyncMap[K comparable, V any] struct {
	_map *sync.Map
}

func New[K comparable, V any]() SyncMap[K, V] {
	return SyncMap[K, V]{
		_map: &sync.Map{},
	}
}

func (sm SyncMap[K, V]) Lookup(key K) (value V, ok bool) {
	v, has := sm._map.Load(key)
	if !has {
		return value, false
	}
	return v.(V), true
}

// LoadOrStore returns the value already stored for key if there is one and
// otherwise stores value. loaded reports which happened.
func (sm SyncMap[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	v, loaded := sm._map.LoadOrStore(key, value)
	return v.(V), loaded
}

func (sm SyncMap[K, V]) Len() int {
	n := 0
	sm._map.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
