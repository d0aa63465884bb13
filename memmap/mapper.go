// Package memmap provides the archive's abstract mappable backing store:
// open/create a file, report its size, resize it, and hand back a
// contiguous byte range over its contents.
package memmap

// Mapper is the capability set the archive core requires of a memory
// mapping. Resize invalidates every previously returned byte slice; the
// mapping owns all bytes handed out — nothing may outlive it.
type Mapper interface {
	// Size returns the current size of the mapping in bytes.
	Size() int

	// Resize changes the backing file to exactly size bytes (truncate
	// and remap) and returns the mapper for chaining. All previously
	// obtained byte slices become invalid. After Resize, the mapping is
	// writable.
	Resize(size int) (Mapper, error)

	// Bytes returns a read-only view of the mapped contents.
	Bytes() []byte

	// WritableBytes returns a writable view of the mapped contents. Only
	// valid after a mapping has been created or resized in this process.
	WritableBytes() []byte

	// Close releases the mapping and the underlying file descriptor.
	Close() error
}
