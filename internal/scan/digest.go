package scan

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"

	"github.com/hashhound/hashhound/internal/hashdb"
)

// Digests holds the three content digests computed for every file, as
// lower-case hex. All three are always computed: the reference database may
// have been populated with any of the algorithms, and a match must not
// depend on which one.
type Digests struct {
	SHA256 string
	MD5    string
	SHA1   string
}

// ComputeDigests hashes the complete file content. A zero-length file
// produces the digests of the empty input.
func ComputeDigests(content []byte) Digests {
	s256 := sha256.Sum256(content)
	m5 := md5.Sum(content)
	s1 := sha1.Sum(content)
	return Digests{
		SHA256: hex.EncodeToString(s256[:]),
		MD5:    hex.EncodeToString(m5[:]),
		SHA1:   hex.EncodeToString(s1[:]),
	}
}

// Match tests the digests against the target set in fixed priority order
// (sha256, then md5, then sha1) and returns the first digest present. The
// fixed order makes the reported value deterministic when a file matches
// under more than one algorithm.
func (d Digests) Match(targets hashdb.TargetSet) (string, bool) {
	for _, digest := range [3]string{d.SHA256, d.MD5, d.SHA1} {
		if targets.Contains(digest) {
			return digest, true
		}
	}
	return "", false
}
