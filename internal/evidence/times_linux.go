//go:build linux

package evidence

import (
	"os"
	"syscall"
	"time"
)

// fillTimes adds access and inode-change times from the underlying stat
// structure. The change time stands in for creation time, which ext-family
// filesystems do not expose through stat.
func fillTimes(md *Metadata, info os.FileInfo) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	atime := time.Unix(st.Atim.Sec, st.Atim.Nsec)
	ctime := time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	md.Accessed = &atime
	md.Created = &ctime
}
