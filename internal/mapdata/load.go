package mapdata

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tier4/mapvalidator/schema"
)

// Codes of findings produced while reading a map file.
const (
	DuplicateIDCode      = "Loading.DuplicateId-001"
	UnknownReferenceCode = "Loading.UnknownReference-001"
	UnknownRelationCode  = "Loading.UnknownRelationType-001"
)

const deletedAction = "delete"

// ErrUnsupportedFormat is returned for map files that are not OSM XML.
var ErrUnsupportedFormat = errors.New("unsupported map format, expected an .osm file")

type osmTag struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

type osmNode struct {
	ID     int64    `xml:"id,attr"`
	Action string   `xml:"action,attr"`
	Lat    float64  `xml:"lat,attr"`
	Lon    float64  `xml:"lon,attr"`
	Tags   []osmTag `xml:"tag"`
}

type osmNodeRef struct {
	Ref int64 `xml:"ref,attr"`
}

type osmWay struct {
	ID     int64        `xml:"id,attr"`
	Action string       `xml:"action,attr"`
	Nodes  []osmNodeRef `xml:"nd"`
	Tags   []osmTag     `xml:"tag"`
}

type osmMember struct {
	Type string `xml:"type,attr"`
	Role string `xml:"role,attr"`
	Ref  int64  `xml:"ref,attr"`
}

type osmRelation struct {
	ID      int64       `xml:"id,attr"`
	Action  string      `xml:"action,attr"`
	Members []osmMember `xml:"member"`
	Tags    []osmTag    `xml:"tag"`
}

type osmDocument struct {
	XMLName   xml.Name      `xml:"osm"`
	Nodes     []osmNode     `xml:"node"`
	Ways      []osmWay      `xml:"way"`
	Relations []osmRelation `xml:"relation"`
}

// Load reads a Lanelet2 OSM file. Problems that do not prevent building the
// map are returned as findings; the error is reserved for unreadable files.
func Load(path string) (*Map, []schema.Finding, error) {
	if filepath.Ext(path) != ".osm" {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open map: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, findings, err := Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read map %s: %w", path, err)
	}
	m.Source = path
	return m, findings, nil
}

// Decode builds a map from OSM XML.
func Decode(r io.Reader) (*Map, []schema.Finding, error) {
	var doc osmDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, err
	}

	m := New()
	var findings []schema.Finding
	report := func(sev schema.Severity, kind schema.SubjectKind, id int64, code, format string, args ...any) {
		findings = append(findings, schema.Finding{
			Severity:    sev,
			SubjectKind: kind,
			SubjectID:   id,
			Code:        code,
			Message:     fmt.Sprintf(format, args...),
		})
	}

	for _, n := range doc.Nodes {
		if n.Action == deletedAction {
			continue
		}
		if _, dup := m.Points[n.ID]; dup {
			report(schema.SeverityError, schema.PointSubject, n.ID, DuplicateIDCode, "Point %d is defined more than once.", n.ID)
			continue
		}
		p := m.AddPoint(n.ID, toTags(n.Tags))
		p.Lat, p.Lon = n.Lat, n.Lon
	}

	for _, w := range doc.Ways {
		if w.Action == deletedAction {
			continue
		}
		tags := toTags(w.Tags)
		kind := schema.LineStringSubject
		if isPolygon(tags) {
			kind = schema.PolygonSubject
		}
		if _, dup := m.Way(w.ID); dup {
			report(schema.SeverityError, kind, w.ID, DuplicateIDCode, "Way %d is defined more than once.", w.ID)
			continue
		}
		points := make([]int64, 0, len(w.Nodes))
		for _, nd := range w.Nodes {
			if _, ok := m.Points[nd.Ref]; !ok {
				report(schema.SeverityError, kind, w.ID, UnknownReferenceCode, "Way %d references missing point %d.", w.ID, nd.Ref)
			}
			points = append(points, nd.Ref)
		}
		if kind == schema.PolygonSubject {
			m.AddPolygon(w.ID, points, tags)
		} else {
			m.AddLineString(w.ID, points, tags)
		}
	}

	seenRelations := make(map[int64]struct{}, len(doc.Relations))
	for _, rel := range doc.Relations {
		if rel.Action == deletedAction {
			continue
		}
		if _, dup := seenRelations[rel.ID]; dup {
			report(schema.SeverityError, schema.PrimitiveSubject, rel.ID, DuplicateIDCode, "Relation %d is defined more than once.", rel.ID)
			continue
		}
		seenRelations[rel.ID] = struct{}{}

		members := make([]Member, 0, len(rel.Members))
		for _, mem := range rel.Members {
			members = append(members, Member{Type: mem.Type, Role: mem.Role, Ref: mem.Ref})
		}
		tags := toTags(rel.Tags)
		switch tags[TypeKey] {
		case LaneletType:
			m.AddLanelet(rel.ID, members, tags)
		case MultipolygonType:
			m.AddArea(rel.ID, members, tags)
		case RegulatoryElementType:
			m.AddRegulatoryElement(rel.ID, members, tags)
		default:
			report(schema.SeverityWarning, schema.PrimitiveSubject, rel.ID, UnknownRelationCode,
				"Relation %d has unsupported type %q and was skipped.", rel.ID, tags[TypeKey])
		}
	}

	return m, findings, nil
}

func isPolygon(tags Tags) bool {
	v := tags[AreaKey]
	return v == "true" || v == "yes"
}

func toTags(in []osmTag) Tags {
	tags := make(Tags, len(in))
	for _, t := range in {
		tags[t.K] = t.V
	}
	return tags
}
