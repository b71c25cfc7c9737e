// internal/mirror/filter_test.go
package mirror

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github-commit-mirror/internal/model"
)

func makeCommit(sha string, parents int) model.Commit {
	return model.Commit{
		SHA:         sha,
		Message:     "commit " + sha,
		CommitDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ParentCount: parents,
	}
}

func TestDedupBySHA(t *testing.T) {
	t.Run("keeps the first occurrence of each hash", func(t *testing.T) {
		first := makeCommit("aaa", 1)
		first.Message = "from branch main"
		dup := makeCommit("aaa", 1)
		dup.Message = "from branch dev"

		out := DedupBySHA([]model.Commit{first, makeCommit("bbb", 1), dup})

		assert.Len(t, out, 2)
		assert.Equal(t, "from branch main", out[0].Message)
		assert.Equal(t, "bbb", out[1].SHA)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, DedupBySHA(nil))
	})
}

func TestDropMergeCommits(t *testing.T) {
	t.Run("excludes commits with two or more parents", func(t *testing.T) {
		in := []model.Commit{
			makeCommit("root", 0),
			makeCommit("aaa", 1),
			makeCommit("merge", 2),
			makeCommit("octopus", 3),
			makeCommit("bbb", 1),
		}

		out := DropMergeCommits(in)

		assert.Len(t, out, 3)
		for _, c := range out {
			assert.LessOrEqual(t, c.ParentCount, 1)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		in := []model.Commit{makeCommit("aaa", 1), makeCommit("merge", 2)}

		once := DropMergeCommits(in)
		twice := DropMergeCommits(once)

		assert.Equal(t, once, twice)
	})
}

// Two branches share 8 of 10 commits and diverge at the tip; commit #7 is a
// merge. The pipeline must yield 10 distinct commits and 9 eligible ones.
func TestDedupAndFilter_TwoBranchScenario(t *testing.T) {
	var shared []model.Commit
	for i := 1; i <= 8; i++ {
		parents := 1
		if i == 7 {
			parents = 2
		}
		shared = append(shared, makeCommit(fmt.Sprintf("shared-%d", i), parents))
	}

	branchMain := append(append([]model.Commit{}, shared...), makeCommit("tip-main", 1))
	branchDev := append(append([]model.Commit{}, shared...), makeCommit("tip-dev", 1))

	combined := append(append([]model.Commit{}, branchMain...), branchDev...)
	assert.Len(t, combined, 18)

	distinct := DedupBySHA(combined)
	assert.Len(t, distinct, 10)

	eligible := DropMergeCommits(distinct)
	assert.Len(t, eligible, 9)
	for _, c := range eligible {
		assert.NotEqual(t, "shared-7", c.SHA)
	}
}
