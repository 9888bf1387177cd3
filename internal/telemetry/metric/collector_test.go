package metric

import (
	"strings"
	"testing"

	"github.com/yndnr/countmesh/internal/storage/shardset"
	"github.com/yndnr/countmesh/pkg/cmap"
)

type fakeSource []shardset.ShardStat

func (f fakeSource) Occupancy() []shardset.ShardStat { return f }

func TestCollector(t *testing.T) {
	r := NewRegistry()
	c := NewCollector(fakeSource{
		{Shard: 0, Used: 3, Capacity: 256, Pending: 0},
		{Shard: 1, Used: 5, Capacity: 256, Pending: 2},
	})
	if err := r.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}

	body := scrape(t, r.Handler())
	for _, want := range []string{
		`countmesh_shard_slots_occupied{shard="0"} 3`,
		`countmesh_shard_slots_occupied{shard="1"} 5`,
		`countmesh_shard_slots_capacity{shard="1"} 256`,
		`countmesh_shard_pending_entries{shard="1"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}

	if !r.Unregister(c) {
		t.Error("Unregister should report true for a registered collector")
	}
}

func TestCollector_LiveShardSet(t *testing.T) {
	set, err := shardset.New[cmap.IntKey](shardset.Config{ShardCount: 2, LogSize: 4, MaxProbe: 8})
	if err != nil {
		t.Fatalf("shardset.New: %v", err)
	}

	r := NewRegistry()
	if err := r.Register(NewCollector(set)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	body := scrape(t, r.Handler())
	if !strings.Contains(body, `countmesh_shard_slots_capacity{shard="0"} 16`) {
		t.Error("expected capacity 16 for shard 0")
	}
}
