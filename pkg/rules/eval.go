package rules

import "github.com/crastos/labeler/pkg/glob"

// GroupSatisfied reports whether one rule group holds for the changed
// file set.
//
// All-patterns constrain every file: each changed file must conform to
// each pattern, so an empty file set satisfies them vacuously.
// Any-patterns need a witness: at least one changed file conforming to
// every pattern, so an empty file set never satisfies them.
func GroupSatisfied(files []string, g Group) (bool, error) {
	if len(g.All) > 0 {
		for _, file := range files {
			for _, p := range g.All {
				ok, err := p.Conforms(file)
				if err != nil {
					return false, err
				}
				if !ok {
					return false, nil
				}
			}
		}
	}

	if len(g.Any) > 0 {
		witness := false
		for _, file := range files {
			ok, err := fileConforms(file, g.Any)
			if err != nil {
				return false, err
			}
			if ok {
				witness = true
				break
			}
		}
		if !witness {
			return false, nil
		}
	}

	return true, nil
}

// Satisfied reports whether any group in the sequence holds, in order,
// stopping at the first success.
func Satisfied(files []string, groups []Group) (bool, error) {
	for _, g := range groups {
		ok, err := GroupSatisfied(files, g)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func fileConforms(file string, patterns []glob.Pattern) (bool, error) {
	for _, p := range patterns {
		ok, err := p.Conforms(file)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
