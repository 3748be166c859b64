package checks

import "github.com/tier4/mapvalidator/internal/mapdata"

const elevationKey = "ele"

func checkElevationDeclared(env *Env) {
	for _, id := range mapdata.SortedIDs(env.Map.Points) {
		if !env.Map.Points[id].Tags.Has(elevationKey) {
			env.Issue(1, id, nil)
		}
	}
}
