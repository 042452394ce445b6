package scan

import (
	"testing"

	"github.com/hashhound/hashhound/internal/hashdb"
)

// Standard test vectors for "abc".
const (
	abcSHA256 = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	abcMD5    = "900150983cd24fb0d6963f7d28e17f72"
	abcSHA1   = "a9993e364706816aba3e25717850c26c9cd0d89d"
)

// Digests of the empty input.
const (
	emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	emptyMD5    = "d41d8cd98f00b204e9800998ecf8427e"
	emptySHA1   = "da39a3ee5e6b4b0d3255bfef95601890afd80709"
)

func TestComputeDigests(t *testing.T) {
	d := ComputeDigests([]byte("abc"))
	if d.SHA256 != abcSHA256 {
		t.Errorf("SHA256 = %q, want %q", d.SHA256, abcSHA256)
	}
	if d.MD5 != abcMD5 {
		t.Errorf("MD5 = %q, want %q", d.MD5, abcMD5)
	}
	if d.SHA1 != abcSHA1 {
		t.Errorf("SHA1 = %q, want %q", d.SHA1, abcSHA1)
	}
}

func TestComputeDigestsEmptyInput(t *testing.T) {
	for _, content := range [][]byte{nil, {}} {
		d := ComputeDigests(content)
		if d.SHA256 != emptySHA256 || d.MD5 != emptyMD5 || d.SHA1 != emptySHA1 {
			t.Errorf("empty input digests = %+v", d)
		}
	}
}

func TestMatchPriority(t *testing.T) {
	d := ComputeDigests([]byte("abc"))

	tests := []struct {
		name    string
		targets hashdb.TargetSet
		want    string
		wantOK  bool
	}{
		{"no match", hashdb.TargetSet{"deadbeef": {}}, "", false},
		{"empty set", hashdb.TargetSet{}, "", false},
		{"sha256 only", set(abcSHA256), abcSHA256, true},
		{"md5 only", set(abcMD5), abcMD5, true},
		{"sha1 only", set(abcSHA1), abcSHA1, true},
		{"sha256 beats md5", set(abcSHA256, abcMD5), abcSHA256, true},
		{"md5 beats sha1", set(abcMD5, abcSHA1), abcMD5, true},
		{"all three", set(abcSHA256, abcMD5, abcSHA1), abcSHA256, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Match(tt.targets)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Match = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func set(hashes ...string) hashdb.TargetSet {
	s := make(hashdb.TargetSet, len(hashes))
	for _, h := range hashes {
		s[h] = struct{}{}
	}
	return s
}
