package checks

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tier4/mapvalidator/internal/issues"
	"github.com/tier4/mapvalidator/internal/mapdata"
	"github.com/tier4/mapvalidator/schema"
)

func runBuiltin(t *testing.T, name string, m *mapdata.Map, params schema.Parameters) []schema.Finding {
	t.Helper()
	runner := Builtin().Runner(issues.Default(), params)
	findings, err := runner.RunCheck(context.Background(), name, m)
	require.NoError(t, err)
	return findings
}

func ids(findings []schema.Finding) []int64 {
	out := make([]int64, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.SubjectID)
	}
	return out
}

func TestRegistry(t *testing.T) {
	r := Builtin()
	assert.Len(t, r.Names(), 7)
	assert.Equal(t, []string{LaneLaneletBounds, LaneRegulatoryElementReferences, LaneSpeedLimitValidity}, r.Match(regexp.MustCompile(`mapping\.lane\.`)))
	assert.Empty(t, r.Match(regexp.MustCompile(`nothing`)))
	assert.Len(t, r.Match(nil), 7)

	desc, ok := r.Describe(AreaSubtypeTagging)
	assert.True(t, ok)
	assert.NotEmpty(t, desc)

	assert.Error(t, r.Register(Check{Name: AreaSubtypeTagging, Run: func(*Env) {}}))
	assert.Error(t, r.Register(Check{Name: "", Run: func(*Env) {}}))
	assert.Error(t, r.Register(Check{Name: "mapping.no.run"}))
}

func TestBuiltinCodesInCatalog(t *testing.T) {
	catalog := issues.Default()
	for _, name := range Builtin().Names() {
		code, err := issues.Code(name, 1)
		require.NoError(t, err)
		_, ok := catalog.Lookup(code)
		assert.True(t, ok, "missing catalog entry %s", code)
	}
}

func TestRunner(t *testing.T) {
	runner := Builtin().Runner(issues.Default(), nil)
	assert.True(t, runner.HasCheck(PointElevationDeclared))
	assert.False(t, runner.HasCheck("mapping.unknown"))

	_, err := runner.RunCheck(context.Background(), "mapping.unknown", mapdata.New())
	assert.ErrorIs(t, err, ErrUnknownCheck)
}

func TestRunner_UncataloguedIssue(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Check{Name: "custom.missing.code", Run: func(env *Env) { env.Issue(1, 1, nil) }})
	_, err := r.Runner(issues.Default(), nil).RunCheck(context.Background(), "custom.missing.code", mapdata.New())
	assert.Error(t, err)
}

func TestElevationDeclared(t *testing.T) {
	m := mapdata.New()
	m.AddPoint(3, nil)
	m.AddPoint(1, mapdata.Tags{"ele": "1.0"})
	m.AddPoint(2, nil)

	findings := runBuiltin(t, PointElevationDeclared, m, nil)
	assert.Equal(t, []int64{2, 3}, ids(findings))
	assert.Equal(t, schema.SeverityWarning, findings[0].Severity)
	assert.Equal(t, schema.PointSubject, findings[0].SubjectKind)
	assert.Equal(t, "Point.ElevationDeclared-001", findings[0].Code)
}

func TestMinimumPoints(t *testing.T) {
	m := mapdata.New()
	m.AddPoint(1, nil)
	m.AddPoint(2, nil)
	m.AddPoint(3, nil)
	m.AddLineString(10, []int64{1, 2}, nil)
	m.AddLineString(11, []int64{1}, nil)
	m.AddLineString(12, []int64{1, 99}, nil)

	findings := runBuiltin(t, LineStringMinimumPoints, m, nil)
	require.Len(t, findings, 3)
	assert.Equal(t, int64(11), findings[0].SubjectID)
	assert.Equal(t, "Linestring.MinimumPoints-001", findings[0].Code)
	assert.Equal(t, "Linestring.MinimumPoints-002", findings[1].Code)
	assert.Contains(t, findings[1].Message, "99")
	assert.Equal(t, int64(12), findings[2].SubjectID)

	strict := runBuiltin(t, LineStringMinimumPoints, m, schema.Parameters{
		LineStringMinimumPoints: {"min_points": 3},
	})
	assert.Len(t, strict, 4)
}

func TestMinimumPoints_DecodedMissingPoint(t *testing.T) {
	doc := `<osm>
  <node id="1" lat="0" lon="0"/>
  <node id="2" lat="0" lon="0"/>
  <way id="10"><nd ref="1"/><nd ref="2"/><nd ref="99"/></way>
</osm>`
	m, loading, err := mapdata.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, loading, 1)

	findings := runBuiltin(t, LineStringMinimumPoints, m, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, "Linestring.MinimumPoints-002", findings[0].Code)
	assert.Equal(t, schema.SeverityError, findings[0].Severity)
	assert.Equal(t, int64(10), findings[0].SubjectID)
	assert.Contains(t, findings[0].Message, "99")
}

func TestLaneletBounds(t *testing.T) {
	m := mapdata.New()
	m.AddLineString(10, nil, nil)
	m.AddLineString(11, nil, nil)
	m.AddLanelet(100, []mapdata.Member{
		{Type: "way", Role: mapdata.LeftRole, Ref: 10},
		{Type: "way", Role: mapdata.RightRole, Ref: 11},
	}, nil)
	m.AddLanelet(101, []mapdata.Member{{Type: "way", Role: mapdata.LeftRole, Ref: 10}}, nil)
	m.AddLanelet(102, []mapdata.Member{
		{Type: "way", Role: mapdata.LeftRole, Ref: 10},
		{Type: "way", Role: mapdata.RightRole, Ref: 55},
	}, nil)

	findings := runBuiltin(t, LaneLaneletBounds, m, nil)
	require.Len(t, findings, 2)
	assert.Equal(t, "Lane.LaneletBounds-001", findings[0].Code)
	assert.Equal(t, "The lanelet has no right bound.", findings[0].Message)
	assert.Equal(t, int64(101), findings[0].SubjectID)
	assert.Equal(t, "Lane.LaneletBounds-002", findings[1].Code)
	assert.Equal(t, int64(102), findings[1].SubjectID)
}

func TestSpeedLimitValidity(t *testing.T) {
	m := mapdata.New()
	m.AddLanelet(1, nil, mapdata.Tags{"subtype": "road", "speed_limit": "40"})
	m.AddLanelet(2, nil, mapdata.Tags{"subtype": "road", "speed_limit": "-5"})
	m.AddLanelet(3, nil, mapdata.Tags{"subtype": "private", "speed_limit": "abc"})
	m.AddLanelet(4, nil, mapdata.Tags{"subtype": "road", "speed_limit": "200"})
	m.AddLanelet(5, nil, mapdata.Tags{"subtype": "crosswalk", "speed_limit": "-1"})
	m.AddLanelet(6, nil, mapdata.Tags{"subtype": "road"})

	findings := runBuiltin(t, LaneSpeedLimitValidity, m, nil)
	require.Len(t, findings, 3)
	assert.Equal(t, []int64{2, 3, 4}, ids(findings))
	assert.Equal(t, schema.SeverityError, findings[0].Severity)
	assert.Equal(t, schema.SeverityError, findings[1].Severity)
	assert.Equal(t, schema.SeverityWarning, findings[2].Severity)
	assert.Contains(t, findings[2].Message, "150")

	relaxed := runBuiltin(t, LaneSpeedLimitValidity, m, schema.Parameters{
		LaneSpeedLimitValidity: {"max_speed_limit": 250.0},
	})
	assert.Equal(t, []int64{2, 3}, ids(relaxed))
}

func TestRegulatoryElementReferences(t *testing.T) {
	m := mapdata.New()
	m.AddRegulatoryElement(200, nil, nil)
	m.AddLanelet(1, []mapdata.Member{{Type: "relation", Role: mapdata.RegulatoryElementRole, Ref: 200}}, nil)
	m.AddLanelet(2, []mapdata.Member{{Type: "relation", Role: mapdata.RegulatoryElementRole, Ref: 201}}, nil)

	findings := runBuiltin(t, LaneRegulatoryElementReferences, m, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, int64(2), findings[0].SubjectID)
	assert.Contains(t, findings[0].Message, "201")
}

func TestTrafficLightDetails(t *testing.T) {
	m := mapdata.New()
	m.AddLineString(10, nil, mapdata.Tags{"type": "traffic_light"})
	m.AddLineString(11, nil, mapdata.Tags{"type": "stop_line"})
	m.AddRegulatoryElement(1, []mapdata.Member{
		{Type: "way", Role: mapdata.RefersRole, Ref: 10},
		{Type: "way", Role: mapdata.RefLineRole, Ref: 11},
	}, mapdata.Tags{"subtype": "traffic_light"})
	m.AddRegulatoryElement(2, nil, mapdata.Tags{"subtype": "traffic_light"})
	m.AddRegulatoryElement(3, []mapdata.Member{
		{Type: "way", Role: mapdata.RefersRole, Ref: 11},
		{Type: "way", Role: mapdata.RefLineRole, Ref: 11},
	}, mapdata.Tags{"subtype": "traffic_light"})
	m.AddRegulatoryElement(4, nil, mapdata.Tags{"subtype": "traffic_sign"})

	findings := runBuiltin(t, TrafficLightRegulatoryElementDetails, m, nil)
	require.Len(t, findings, 3)
	assert.Equal(t, "TrafficLight.RegulatoryElementDetails-001", findings[0].Code)
	assert.Equal(t, "TrafficLight.RegulatoryElementDetails-002", findings[1].Code)
	assert.Equal(t, int64(2), findings[1].SubjectID)
	assert.Equal(t, "TrafficLight.RegulatoryElementDetails-003", findings[2].Code)
	assert.Equal(t, int64(3), findings[2].SubjectID)
	assert.Equal(t, schema.RegulatoryElementSubject, findings[2].SubjectKind)
}

func TestAreaSubtype(t *testing.T) {
	m := mapdata.New()
	m.AddArea(1, nil, mapdata.Tags{"subtype": "parking"})
	m.AddArea(2, nil, nil)

	findings := runBuiltin(t, AreaSubtypeTagging, m, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, schema.SeverityInfo, findings[0].Severity)
	assert.Equal(t, int64(2), findings[0].SubjectID)
}
