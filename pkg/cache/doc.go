// Package cache provides LRU, a generic fixed-capacity cache.
//
// The override resolver keeps compiled lookup tables in an LRU keyed by the
// set of enabled features, so a request that enables the same features as an
// earlier one reuses its tables instead of compiling them again.
//
//	c := cache.NewLRU[string, *Tables](64)
//	if t, ok := c.Get(key); ok {
//		return t
//	}
//	c.Put(key, compile(features))
package cache
