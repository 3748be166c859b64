package checks

import "github.com/tier4/mapvalidator/internal/mapdata"

func checkAreaSubtype(env *Env) {
	for _, id := range mapdata.SortedIDs(env.Map.Areas) {
		if !env.Map.Areas[id].Tags.Has(mapdata.SubtypeKey) {
			env.Issue(1, id, nil)
		}
	}
}
