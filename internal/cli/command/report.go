package command

import (
	"fmt"
	"io"
	"time"

	"github.com/yndnr/countmesh/internal/cli/input"
	"github.com/yndnr/countmesh/internal/cli/output"
	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/internal/storage/shardset"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// entry is one key and its count.
type entry struct {
	Key   string `json:"key" yaml:"key"`
	Count int64  `json:"count" yaml:"count"`
	Shard int    `json:"shard" yaml:"shard" table:"wide"`
}

// lookupEntry is the answer to one --lookup key.
type lookupEntry struct {
	Key   string `json:"key" yaml:"key"`
	Found bool   `json:"found" yaml:"found"`
	Count int64  `json:"count" yaml:"count"`
	Shard int    `json:"shard" yaml:"shard" table:"wide"`
}

// slotEntry is one occupied slot listed by --dump.
type slotEntry struct {
	Shard int    `json:"shard" yaml:"shard"`
	Slot  int    `json:"slot" yaml:"slot"`
	Key   string `json:"key" yaml:"key"`
	Count int64  `json:"count" yaml:"count"`
}

// summary is the table-mode view of the run.
type summary struct {
	RunID    string        `json:"run_id"`
	Items    uint64        `json:"items"`
	Unique   int           `json:"unique"`
	Rejected uint64        `json:"rejected"`
	Direct   uint64        `json:"direct"`
	Staged   uint64        `json:"staged"`
	Merged   uint64        `json:"merged"`
	Inserted uint64        `json:"inserted"`
	Updated  uint64        `json:"updated"`
	Failed   uint64        `json:"failed"`
	Duration time.Duration `json:"duration"`
	Merge    time.Duration `json:"merge" table:"wide"`
}

// report is everything count prints.
type report struct {
	Stats    *domain.Stats        `json:"stats" yaml:"stats"`
	Unique   int                  `json:"unique" yaml:"unique"`
	Rejected uint64               `json:"rejected" yaml:"rejected"`
	Top      []entry              `json:"top" yaml:"top"`
	Lookup   []lookupEntry        `json:"lookup,omitempty" yaml:"lookup,omitempty"`
	Dump     []slotEntry          `json:"dump,omitempty" yaml:"dump,omitempty"`
	Shards   []shardset.ShardStat `json:"shards,omitempty" yaml:"shards,omitempty"`
}

type reportOptions struct {
	top      int
	lookups  []string
	dumps    []int
	rejected uint64
	wide     bool
}

func buildReport(set *shardset.ShardSet[cmap.Key], stats *domain.Stats, opts reportOptions) *report {
	all := set.Items()
	rep := &report{
		Stats:    stats,
		Unique:   len(all),
		Rejected: opts.rejected,
		Top:      make([]entry, 0),
	}

	for _, e := range cmap.Top(all, opts.top) {
		rep.Top = append(rep.Top, entry{Key: e.Key.String(), Count: e.Count, Shard: set.ShardOf(e.Key)})
	}

	for _, raw := range opts.lookups {
		le := lookupEntry{Key: input.Normalize(raw), Shard: -1}
		if k, err := cmap.MakeKey(le.Key); err == nil {
			le.Shard = set.ShardOf(k)
			if e, ok := set.Find(k); ok {
				le.Found = true
				le.Count = e.Count
			}
		}
		rep.Lookup = append(rep.Lookup, le)
	}

	for _, i := range opts.dumps {
		for _, s := range set.Dump(i) {
			rep.Dump = append(rep.Dump, slotEntry{Shard: i, Slot: s.Index, Key: s.Key.String(), Count: s.Count})
		}
	}

	if opts.wide {
		rep.Shards = set.Occupancy()
	}
	return rep
}

func printReport(w io.Writer, flags *GlobalFlags, rep *report) error {
	if flags.Output != output.FormatTable {
		return output.NewFormatter(flags.Output, flags.Wide).Format(w, rep)
	}

	f := &output.TableFormatter{Wide: flags.Wide}
	s := rep.Stats
	sections := []struct {
		title string
		data  any
		show  bool
	}{
		{"summary", summary{
			RunID:    s.RunID,
			Items:    s.Items,
			Unique:   rep.Unique,
			Rejected: rep.Rejected,
			Direct:   s.Direct,
			Staged:   s.Staged,
			Merged:   s.Merged,
			Inserted: s.Inserted,
			Updated:  s.Updated,
			Failed:   s.Failed,
			Duration: s.Duration,
			Merge:    s.Merge,
		}, true},
		{"top", rep.Top, true},
		{"lookup", rep.Lookup, len(rep.Lookup) > 0},
		{"failed keys", s.FailedKeys, len(s.FailedKeys) > 0},
		{"dump", rep.Dump, len(rep.Dump) > 0},
		{"workers", s.Workers, flags.Wide},
		{"shards", rep.Shards, flags.Wide},
	}

	first := true
	for _, sec := range sections {
		if !sec.show {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprintf(w, "== %s ==\n", sec.title)
		if err := f.Format(w, sec.data); err != nil {
			return err
		}
	}
	return nil
}
