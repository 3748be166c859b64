package checks

import (
	"strconv"

	"github.com/tier4/mapvalidator/internal/mapdata"
)

const trafficLightValue = "traffic_light"

func checkTrafficLightDetails(env *Env) {
	for _, id := range mapdata.SortedIDs(env.Map.RegulatoryElements) {
		re := env.Map.RegulatoryElements[id]
		if re.Tags[mapdata.SubtypeKey] != trafficLightValue {
			continue
		}
		refers := re.MembersWithRole(mapdata.RefersRole)
		if len(refers) == 0 {
			env.Issue(1, id, nil)
		}
		if len(re.MembersWithRole(mapdata.RefLineRole)) == 0 {
			env.Issue(2, id, nil)
		}
		for _, m := range refers {
			ls, ok := env.Map.Way(m.Ref)
			if !ok || ls.Tags[mapdata.TypeKey] != trafficLightValue {
				env.Issue(3, id, map[string]string{"linestring_id": strconv.FormatInt(m.Ref, 10)})
			}
		}
	}
}
