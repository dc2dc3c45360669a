// Package rawcstr converts text values into null-terminated string pointers
// suitable for passing to foreign functions, deduplicating equal values
// through an interning cache so repeated conversions of the same text cost no
// additional memory.
//
// Every pointer handed out by a Cache is owned by that Cache and stays valid
// until Close is called. Callers must not write through a returned pointer,
// must not free it, and must not wrap it in anything that takes ownership of
// the underlying buffer.
//
// A Cache belongs to a single unit of work and provides no locking. Create
// one where the pointers are needed and tear it down when that work ends:
//
//	cache := rawcstr.NewCache()
//	defer cache.Close()
//
//	name, err := cache.GetOrCreate("device0")
//	if err != nil {
//		return err
//	}
//	// pass name to foreign code; valid until cache.Close()
package rawcstr
