package engine

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/learner"
	"github.com/abhisek/pathwise/internal/path"
)

func keyPool() []asset.Key {
	var out []asset.Key
	for _, topic := range []string{"errors", "generics"} {
		for _, l := range asset.Levels {
			for _, f := range asset.Formats {
				out = append(out, asset.NewKey(course, topic, string(l), string(f)))
			}
		}
	}
	return out
}

func randomPath(t *testing.T, rng *rand.Rand, pool []asset.Key) *path.Path {
	t.Helper()
	perm := rng.Perm(len(pool))
	n := 1 + rng.Intn(len(pool))
	keys := make([]asset.Key, n)
	for i := 0; i < n; i++ {
		keys[i] = pool[perm[i]]
	}
	p, err := path.New("p", "u1", course, keys)
	if err != nil {
		t.Fatalf("path.New: %v", err)
	}

	statuses := []path.Status{path.StatusPending, path.StatusPending, path.StatusCompleted, path.StatusSkipped, path.StatusNeedsReview}
	for _, node := range p.Nodes {
		node.Status = statuses[rng.Intn(len(statuses))]
	}
	p.CurrentIndex = p.FirstPendingFrom(rng.Intn(p.Len() + 1))
	p.ResolveNext()
	return p
}

func assetIDSet(p *path.Path) []string {
	ids := p.AssetIDs()
	sort.Strings(ids)
	return ids
}

func TestResequence_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := keyPool()
	eng := New()

	for i := 0; i < 2000; i++ {
		p := randomPath(t, rng, pool)
		if err := p.Validate(); err != nil {
			t.Fatalf("case %d: generated invalid path: %v", i, err)
		}
		var k asset.Key
		if rng.Intn(4) == 0 {
			k = pool[rng.Intn(len(pool))]
		} else {
			k = p.Nodes[rng.Intn(p.Len())].Key
		}
		in := Input{
			User:      learner.New("u1", "Asha", "engineer"),
			Path:      p,
			Asset:     asset.New(k, "", 10),
			Score:     float64(rng.Intn(101)),
			TimeRatio: 0.3 + rng.Float64()*2.2,
		}

		res := eng.Resequence(in)
		out := res.Path

		if out.Len() != p.Len() {
			t.Fatalf("case %d: node count %d, want %d", i, out.Len(), p.Len())
		}
		if !reflect.DeepEqual(assetIDSet(out), assetIDSet(p)) {
			t.Fatalf("case %d: asset id set changed", i)
		}
		if err := out.Validate(); err != nil {
			t.Fatalf("case %d: %v (reason %q)", i, err, res.Reason)
		}
		for _, before := range p.Nodes {
			if !before.Status.Terminal() {
				continue
			}
			at := out.IndexOfNode(before.ID)
			after := out.Nodes[at]
			if res.Outcome == OutcomeStruggling && before.AssetID == res.TargetAssetID {
				// a remediation target is reopened into the delivery slot
				if after.Status != path.StatusPending || at != out.CurrentIndex {
					t.Fatalf("case %d: reopened %s is %s at %d, pointer %d", i, after.AssetID, after.Status, at, out.CurrentIndex)
				}
				continue
			}
			if after.Status != before.Status {
				t.Fatalf("case %d: terminal node %s went %s -> %s", i, before.AssetID, before.Status, after.Status)
			}
		}
		if res.Mastery < 0 || res.Mastery > 1 {
			t.Fatalf("case %d: mastery %v out of range", i, res.Mastery)
		}
		if res.Reason == "" {
			t.Fatalf("case %d: empty reason", i)
		}

		again := eng.Resequence(in)
		if again.Reason != res.Reason || !reflect.DeepEqual(again.Path.AssetIDs(), out.AssetIDs()) ||
			again.Path.CurrentIndex != out.CurrentIndex || again.NextAssetID != res.NextAssetID {
			t.Fatalf("case %d: non-deterministic result", i)
		}
	}
}
