package main

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func abcGroup(t *testing.T, fsys afero.Fs) DuplicateGroup {
	t.Helper()
	writeFile(t, fsys, "/g/A", "dup", baseTime)
	writeFile(t, fsys, "/g/B", "dup", baseTime.Add(time.Hour))
	writeFile(t, fsys, "/g/C", "dup", baseTime.Add(2*time.Hour))
	return DuplicateGroup{Size: 3, Digest: "d", Files: []FileRecord{
		{Path: "/g/B", Size: 3}, {Path: "/g/A", Size: 3}, {Path: "/g/C", Size: 3},
	}}
}

func TestChooseKeeperOldest(t *testing.T) {
	fsys := afero.NewMemMapFs()
	group := abcGroup(t, fsys)

	for i := 0; i < 3; i++ {
		keeper, err := ChooseKeeper(fsys, group)
		require.NoError(t, err)
		require.Equal(t, "/g/A", keeper.Path)
		require.True(t, keeper.ModTime.Equal(baseTime))
	}
}

func TestChooseKeeperTieKeepsFirst(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/t/2", "x", baseTime)
	writeFile(t, fsys, "/t/1", "x", baseTime)
	group := DuplicateGroup{Files: []FileRecord{{Path: "/t/2"}, {Path: "/t/1"}}}

	keeper, err := ChooseKeeper(fsys, group)
	require.NoError(t, err)
	require.Equal(t, "/t/2", keeper.Path)
}

func TestChooseKeeperVanishedMember(t *testing.T) {
	fsys := afero.NewMemMapFs()
	group := abcGroup(t, fsys)
	require.NoError(t, fsys.Remove("/g/C"))

	_, err := ChooseKeeper(fsys, group)
	require.True(t, IsKeeperResolution(err))

	_, err = PlanDeletion(fsys, group, Selection{AllButKeeper: true})
	require.True(t, IsKeeperResolution(err))
}

func TestChooseKeeperEmptyGroup(t *testing.T) {
	_, err := ChooseKeeper(afero.NewMemMapFs(), DuplicateGroup{})
	require.ErrorIs(t, err, errEmptyGroup)
}

func TestDeletionSet(t *testing.T) {
	group := DuplicateGroup{Files: []FileRecord{{Path: "A"}, {Path: "B"}, {Path: "C"}}}
	keeper := FileRecord{Path: "A"}

	cases := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"sentinel only", Selection{AllButKeeper: true}, []string{"B", "C"}},
		{"sentinel with keeper", Selection{AllButKeeper: true, Paths: []string{"A"}}, []string{"B", "C"}},
		{"sentinel with override", Selection{AllButKeeper: true, Paths: []string{"B"}}, []string{"C"}},
		{"sentinel with unknown", Selection{AllButKeeper: true, Paths: []string{"Q"}}, []string{"B", "C"}},
		{"literal", Selection{Paths: []string{"C", "B"}}, []string{"B", "C"}},
		{"literal keeper", Selection{Paths: []string{"A"}}, []string{"A"}},
		{"literal unknown", Selection{Paths: []string{"Q"}}, []string{}},
		{"nothing", Selection{}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DeletionSet(group, keeper, tc.sel))
		})
	}
}

func TestPlanDeletion(t *testing.T) {
	fsys := afero.NewMemMapFs()
	group := abcGroup(t, fsys)

	plan, err := PlanDeletion(fsys, group, Selection{AllButKeeper: true})
	require.NoError(t, err)
	require.Equal(t, "/g/A", plan.Keeper.Path)
	require.Equal(t, []string{"/g/B", "/g/C"}, plan.Delete)
	require.False(t, plan.Empty())
}
