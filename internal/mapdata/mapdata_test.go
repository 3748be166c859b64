package mapdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tier4/mapvalidator/schema"
)

const sampleOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="35.0" lon="139.0"><tag k="ele" v="1.5"/></node>
  <node id="2" lat="35.1" lon="139.1"><tag k="ele" v="1.5"/></node>
  <node id="3" lat="35.2" lon="139.2"/>
  <node id="4" lat="35.3" lon="139.3"/>
  <node id="9" lat="35.3" lon="139.3" action="delete"/>
  <way id="10"><nd ref="1"/><nd ref="2"/><tag k="type" v="line_thin"/></way>
  <way id="11"><nd ref="3"/><nd ref="4"/><nd ref="99"/><tag k="type" v="line_thin"/></way>
  <way id="12"><nd ref="1"/><nd ref="2"/><nd ref="3"/><tag k="area" v="true"/></way>
  <relation id="100">
    <member type="way" role="left" ref="10"/>
    <member type="way" role="right" ref="11"/>
    <tag k="type" v="lanelet"/><tag k="subtype" v="road"/><tag k="speed_limit" v="40"/>
  </relation>
  <relation id="200"><member type="way" role="refers" ref="10"/><tag k="type" v="regulatory_element"/><tag k="subtype" v="traffic_light"/></relation>
  <relation id="300"><member type="way" role="outer" ref="12"/><tag k="type" v="multipolygon"/><tag k="subtype" v="parking"/></relation>
  <relation id="400"><tag k="type" v="route"/></relation>
</osm>`

func TestDecode(t *testing.T) {
	m, findings, err := Decode(strings.NewReader(sampleOSM))
	require.NoError(t, err)

	assert.Len(t, m.Points, 4)
	assert.Len(t, m.LineStrings, 2)
	assert.Len(t, m.Polygons, 1)
	assert.Len(t, m.Lanelets, 1)
	assert.Len(t, m.RegulatoryElements, 1)
	assert.Len(t, m.Areas, 1)
	assert.Equal(t, 10, m.Size())

	assert.Equal(t, []int64{3, 4, 99}, m.LineStrings[11].PointIDs)
	assert.Equal(t, "40", m.Lanelets[100].Tags["speed_limit"])
	assert.Len(t, m.Lanelets[100].MembersWithRole(LeftRole), 1)

	require.Len(t, findings, 2)
	assert.Equal(t, UnknownReferenceCode, findings[0].Code)
	assert.Equal(t, int64(11), findings[0].SubjectID)
	assert.Equal(t, schema.SeverityError, findings[0].Severity)
	assert.Equal(t, UnknownRelationCode, findings[1].Code)
	assert.Equal(t, schema.SeverityWarning, findings[1].Severity)
}

func TestDecode_Duplicates(t *testing.T) {
	doc := `<osm><node id="1" lat="0" lon="0"/><node id="1" lat="0" lon="0"/></osm>`
	m, findings, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Len(t, m.Points, 1)
	require.Len(t, findings, 1)
	assert.Equal(t, DuplicateIDCode, findings[0].Code)
	assert.Equal(t, schema.PointSubject, findings[0].SubjectKind)
}

func TestDecode_NotOSM(t *testing.T) {
	_, _, err := Decode(strings.NewReader(`<gpx></gpx>`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lanelet2_map.osm")
	require.NoError(t, os.WriteFile(path, []byte(sampleOSM), 0o644))

	m, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Source)

	_, _, err = Load(filepath.Join(dir, "map.bin"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, err = Load(filepath.Join(dir, "missing.osm"))
	assert.Error(t, err)
}

func TestSortedIDs(t *testing.T) {
	m := New()
	m.AddPoint(5, nil)
	m.AddPoint(1, nil)
	m.AddPoint(3, nil)
	assert.Equal(t, []int64{1, 3, 5}, SortedIDs(m.Points))
	assert.NotNil(t, m.Points[5].Tags)
}

func TestWay(t *testing.T) {
	m := New()
	m.AddLineString(1, []int64{1, 2}, nil)
	m.AddPolygon(2, []int64{1, 2, 3}, nil)

	ls, ok := m.Way(1)
	require.True(t, ok)
	assert.Len(t, ls.PointIDs, 2)

	poly, ok := m.Way(2)
	require.True(t, ok)
	assert.Len(t, poly.PointIDs, 3)

	_, ok = m.Way(3)
	assert.False(t, ok)
}
