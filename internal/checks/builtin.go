package checks

// Names of the built-in checks.
const (
	PointElevationDeclared               = "mapping.point.elevation_declared"
	LineStringMinimumPoints              = "mapping.linestring.minimum_points"
	LaneLaneletBounds                    = "mapping.lane.lanelet_bounds"
	LaneSpeedLimitValidity               = "mapping.lane.speed_limit_validity"
	LaneRegulatoryElementReferences      = "mapping.lane.regulatory_element_references"
	TrafficLightRegulatoryElementDetails = "mapping.traffic_light.regulatory_element_details"
	AreaSubtypeTagging                   = "mapping.area.subtype_tagging"
)

// Builtin returns a registry holding every built-in check.
func Builtin() *Registry {
	r := NewRegistry()
	r.MustRegister(Check{
		Name:        PointElevationDeclared,
		Description: "Every point declares its elevation with an ele tag.",
		Run:         checkElevationDeclared,
	})
	r.MustRegister(Check{
		Name:        LineStringMinimumPoints,
		Description: "Every linestring has enough existing points (parameter min_points, default 2).",
		Run:         checkMinimumPoints,
	})
	r.MustRegister(Check{
		Name:        LaneLaneletBounds,
		Description: "Every lanelet has a left and a right bound referring to existing linestrings.",
		Run:         checkLaneletBounds,
	})
	r.MustRegister(Check{
		Name:        LaneSpeedLimitValidity,
		Description: "Road and private lanelets carry a positive speed_limit (parameter max_speed_limit, default 150).",
		Run:         checkSpeedLimitValidity,
	})
	r.MustRegister(Check{
		Name:        LaneRegulatoryElementReferences,
		Description: "Regulatory elements referred to by lanelets exist.",
		Run:         checkRegulatoryElementReferences,
	})
	r.MustRegister(Check{
		Name:        TrafficLightRegulatoryElementDetails,
		Description: "Traffic light regulatory elements refer to traffic lights and have a stop line.",
		Run:         checkTrafficLightDetails,
	})
	r.MustRegister(Check{
		Name:        AreaSubtypeTagging,
		Description: "Every area declares its subtype.",
		Run:         checkAreaSubtype,
	})
	return r
}
