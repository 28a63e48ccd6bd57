package main

import (
	"github.com/spf13/afero"
)

// Selection is what the operator ticked for one group. AllButKeeper is the
// "mark all for deletion" choice; when it is set, Paths are exclusions from
// that default rather than additions.
type Selection struct {
	AllButKeeper bool
	Paths        []string
}

type DeletionPlan struct {
	Group  DuplicateGroup
	Keeper FileRecord
	Delete []string
}

func (p DeletionPlan) Empty() bool { return len(p.Delete) == 0 }

// ChooseKeeper re-stats every member and returns the one with the oldest
// modification time. Ties keep the earlier member. A member that can no
// longer be stat'd abandons the whole group.
func ChooseKeeper(fsys afero.Fs, group DuplicateGroup) (FileRecord, error) {
	var keeper FileRecord
	for i, f := range group.Files {
		info, err := fsys.Stat(f.Path)
		if err != nil {
			return FileRecord{}, &KeeperResolutionError{Path: f.Path, Err: err}
		}
		current := FileRecord{Path: f.Path, Size: info.Size(), ModTime: info.ModTime()}
		if i == 0 || current.ModTime.Before(keeper.ModTime) {
			keeper = current
		}
	}
	if keeper.Path == "" {
		return FileRecord{}, &KeeperResolutionError{Err: errEmptyGroup}
	}
	return keeper, nil
}

// DeletionSet turns a raw selection into the paths to remove, in group order.
// Paths that are not members of the group are ignored.
func DeletionSet(group DuplicateGroup, keeper FileRecord, sel Selection) []string {
	listed := make(map[string]struct{}, len(sel.Paths))
	for _, p := range sel.Paths {
		listed[p] = struct{}{}
	}

	out := make([]string, 0, len(group.Files))
	for _, f := range group.Files {
		_, isListed := listed[f.Path]
		if sel.AllButKeeper {
			if f.Path == keeper.Path || isListed {
				continue
			}
		} else if !isListed {
			continue
		}
		out = append(out, f.Path)
	}
	return out
}

func PlanDeletion(fsys afero.Fs, group DuplicateGroup, sel Selection) (DeletionPlan, error) {
	keeper, err := ChooseKeeper(fsys, group)
	if err != nil {
		return DeletionPlan{}, err
	}
	return DeletionPlan{
		Group:  group,
		Keeper: keeper,
		Delete: DeletionSet(group, keeper, sel),
	}, nil
}
