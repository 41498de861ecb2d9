package badger

// Key prefixes for different data types
const (
	blobPrefix     = "blob:"
	manifestPrefix = "manif:"
)

// makeBlobKey generates a key for the blob published under name.
func makeBlobKey(name string) []byte {
	return makeKey(blobPrefix, name)
}

// makeManifestKey generates a key for the manifest of the blob published under name.
// Manifest keys sort by name, so a prefix scan lists catalogs in name order.
func makeManifestKey(name string) []byte {
	return makeKey(manifestPrefix, name)
}

func makeKey(prefix, name string) []byte {
	buf := make([]byte, len(prefix)+len(name))
	offset := copy(buf, prefix)
	copy(buf[offset:], name)
	return buf
}
