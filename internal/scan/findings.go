package scan

import (
	"path"
	"time"

	"github.com/hashhound/hashhound/internal/evidence"
)

// Finding records one file whose content matched the target hash set.
// Findings are immutable once recorded and ordered by discovery: walk order
// within a volume, volumes in enumeration order.
type Finding struct {
	HashValue       string
	FilePath        string
	FileName        string
	FileSize        int64
	PartitionOffset int64
	Created         *time.Time
	Modified        *time.Time
	Accessed        *time.Time
}

// Collector accumulates findings and bumps the matched counter. Only the
// scanning worker touches it, so it needs no locking; the counter it
// increments is atomic for the reporter's benefit.
type Collector struct {
	stats    *Stats
	findings []Finding
}

// NewCollector returns a collector feeding the matched counter in stats.
func NewCollector(stats *Stats) *Collector {
	return &Collector{stats: stats}
}

// Record appends a Finding for a matched file. Identical content under two
// paths yields two findings; there is no deduplication.
func (c *Collector) Record(filePath string, matchedHash string, partitionOffset int64, md evidence.Metadata) {
	c.findings = append(c.findings, Finding{
		HashValue:       matchedHash,
		FilePath:        filePath,
		FileName:        path.Base(filePath),
		FileSize:        md.Size,
		PartitionOffset: partitionOffset,
		Created:         md.Created,
		Modified:        md.Modified,
		Accessed:        md.Accessed,
	})
	c.stats.FilesMatched.Add(1)
}

// Findings returns the accumulated findings in discovery order.
func (c *Collector) Findings() []Finding { return c.findings }
