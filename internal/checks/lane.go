package checks

import (
	"strconv"

	"github.com/tier4/mapvalidator/internal/mapdata"
)

const (
	speedLimitKey        = "speed_limit"
	defaultMaxSpeedLimit = 150.0
	roadSubtype          = "road"
	privateSubtype       = "private"
	relationMember       = "relation"
)

func checkLaneletBounds(env *Env) {
	for _, id := range mapdata.SortedIDs(env.Map.Lanelets) {
		ll := env.Map.Lanelets[id]
		for _, side := range []string{mapdata.LeftRole, mapdata.RightRole} {
			bounds := ll.MembersWithRole(side)
			if len(bounds) == 0 {
				env.Issue(1, id, map[string]string{"side": side})
				continue
			}
			for _, b := range bounds {
				if _, ok := env.Map.LineStrings[b.Ref]; !ok {
					env.Issue(2, id, map[string]string{
						"side":          side,
						"linestring_id": strconv.FormatInt(b.Ref, 10),
					})
				}
			}
		}
	}
}

func checkSpeedLimitValidity(env *Env) {
	maxSpeed := env.Params.Float("max_speed_limit", defaultMaxSpeedLimit)
	for _, id := range mapdata.SortedIDs(env.Map.Lanelets) {
		ll := env.Map.Lanelets[id]
		subtype := ll.Tags[mapdata.SubtypeKey]
		if subtype != roadSubtype && subtype != privateSubtype {
			continue
		}
		raw, ok := ll.Tags.Get(speedLimitKey)
		if !ok {
			continue
		}
		subs := map[string]string{"speed_limit_value": raw, "subtype": subtype}
		speed, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(speed > 0) { // also rejects NaN
			env.Issue(1, id, subs)
			continue
		}
		if speed > maxSpeed {
			subs["max_speed_limit"] = strconv.FormatFloat(maxSpeed, 'f', -1, 64)
			env.Issue(2, id, subs)
		}
	}
}

func checkRegulatoryElementReferences(env *Env) {
	for _, id := range mapdata.SortedIDs(env.Map.Lanelets) {
		for _, m := range env.Map.Lanelets[id].MembersWithRole(mapdata.RegulatoryElementRole) {
			if m.Type != relationMember {
				continue
			}
			if _, ok := env.Map.RegulatoryElements[m.Ref]; !ok {
				env.Issue(1, id, map[string]string{"regulatory_element_id": strconv.FormatInt(m.Ref, 10)})
			}
		}
	}
}
