// Package container provides the two storage primitives the JSON value model
// is built on: a growable contiguous [Array] and a linear-scan key/value
// [Map] layered on top of it.
//
// Both types trade asymptotic performance for predictable memory behavior.
// An [Array] starts with [DefaultCapacity] slots and doubles its capacity only
// when it is exhausted. A [Map] stores its entries in an [Array] of slots,
// finds keys by scanning, and deletes by marking a slot as a tombstone that
// is later reused by an insertion. Nothing is compacted unless the caller
// asks for it with [Map.Compact].
//
// # Usage
//
//	var a container.Array[int]
//	a.Append(1)
//	a.Append(2)
//	fmt.Println(a.Len(), a.Get(1)) // 2 2
//
//	m := container.NewMap[string]()
//	m.Set("host", "localhost")
//	m.Remove("host")            // tombstones the slot
//	m.Set("port", "8080")       // reuses the tombstoned slot
//
// Neither type is safe for concurrent use.
package container
