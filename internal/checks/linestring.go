package checks

import (
	"strconv"

	"github.com/tier4/mapvalidator/internal/mapdata"
)

const defaultMinPoints = 2

func checkMinimumPoints(env *Env) {
	minPoints := env.Params.Int("min_points", defaultMinPoints)
	for _, id := range mapdata.SortedIDs(env.Map.LineStrings) {
		ls := env.Map.LineStrings[id]
		existing := 0
		for _, pid := range ls.PointIDs {
			if _, ok := env.Map.Points[pid]; !ok {
				env.Issue(2, id, map[string]string{"point_id": strconv.FormatInt(pid, 10)})
				continue
			}
			existing++
		}
		if existing < minPoints {
			env.Issue(1, id, map[string]string{
				"point_count": strconv.Itoa(existing),
				"min_points":  strconv.Itoa(minPoints),
			})
		}
	}
}
