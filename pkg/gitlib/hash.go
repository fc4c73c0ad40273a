// Package gitlib resolves revisions and lists tracked files through libgit2.
package gitlib

import (
	git2go "github.com/libgit2/git2go/v34"
)

const (
	// HashSize is the size of a SHA-1 hash in bytes.
	HashSize = 20
	// HashHexSize is the size of a hex-encoded SHA-1 hash.
	HashHexSize = 40

	hexShift = 4
)

// Hash is a git object id (SHA-1).
type Hash [HashSize]byte

// HashFromOid converts a libgit2 Oid to Hash.
func HashFromOid(oid *git2go.Oid) Hash {
	var h Hash
	copy(h[:], oid[:])

	return h
}

// String returns the hex representation of the hash.
func (h Hash) String() string {
	const hexChars = "0123456789abcdef"

	buf := make([]byte, HashHexSize)

	for i, b := range h {
		buf[i*2] = hexChars[b>>hexShift]
		buf[i*2+1] = hexChars[b&0x0f]
	}

	return string(buf)
}

// IsZero reports whether every byte of the hash is zero.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) toOid() *git2go.Oid {
	oid := new(git2go.Oid)
	copy(oid[:], h[:])

	return oid
}
