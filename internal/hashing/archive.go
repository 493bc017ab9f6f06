package hashing

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ArchiveRef returns an IPFS-compatible CIDv1 (raw + sha2-256) for the
// canonical bytes of a record payload. Records carry it as their
// content-addressed archive pointer; it is not the verification fingerprint.
func ArchiveRef(canonical []byte) string {
	sum, err := multihash.Sum(canonical, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1
		// length, this should be unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}
