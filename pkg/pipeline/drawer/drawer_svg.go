package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/matrixci/matrixci/internal/store"
	"github.com/matrixci/matrixci/pkg/pipeline/measure"
)

// SVGDrawer is a drawer that creates a DOT file with the pipeline stage
// graph, ready for `dot -Tsvg`.
type SVGDrawer struct {
	graph       graph.Graph[string, string]
	store       store.CustomStore[string, string]
	stages      map[string]struct{}
	svgFileName string
}

// NewSVGDrawer creates a new SVG drawer.
func NewSVGDrawer(svgFileName string) *SVGDrawer {
	st := store.NewMemoryStore[string, string]()

	return &SVGDrawer{
		svgFileName: svgFileName,
		graph:       graph.NewWithStore(graph.StringHash, st, graph.Directed()),
		store:       st,
		stages:      make(map[string]struct{}),
	}
}

// AddStage adds a stage vertex to the graph.
func (d *SVGDrawer) AddStage(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	d.stages[name] = struct{}{}

	return nil
}

// AddLink adds a link between a stage and its successor.
func (d *SVGDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// SetLabel annotates a stage with a free-form label.
func (d *SVGDrawer) SetLabel(name, label string) error {
	if _, ok := d.stages[name]; !ok {
		return errors.Errorf("unknown stage %s", name)
	}

	d.store.UpdateVertex(name, func(props *graph.VertexProperties) {
		if props.Attributes == nil {
			props.Attributes = make(map[string]string)
		}
		props.Attributes["xlabel"] = label
	})

	return nil
}

// SetStatus colours a stage according to its outcome.
func (d *SVGDrawer) SetStatus(name string, status Status) error {
	if _, ok := d.stages[name]; !ok {
		return errors.Errorf("unknown stage %s", name)
	}

	colour := "green"
	if status == StatusFailed {
		colour = "red"
	}

	d.store.UpdateVertex(name, func(props *graph.VertexProperties) {
		if props.Attributes == nil {
			props.Attributes = make(map[string]string)
		}
		props.Attributes["color"] = colour
	})

	return nil
}

const maxRGB = 240

// AddMeasure annotates stage vertices with their average durations and
// heat-colours the font from blue (fastest) to red (slowest).
func (d *SVGDrawer) AddMeasure(msr measure.Measure) error {
	averages := make(map[string]time.Duration)

	var slowest, fastest time.Duration
	first := true
	for name, metric := range msr.AllMetrics() {
		avg := metric.AVGStageDuration()
		if avg == 0 {
			continue
		}
		averages[name] = avg

		if first || avg > slowest {
			slowest = avg
		}
		if first || avg < fastest {
			fastest = avg
		}
		first = false
	}

	if len(averages) == 0 {
		return nil
	}

	for name, avg := range averages {
		fraction := 1.0
		if slowest > fastest {
			fraction = float64(avg-fastest) / float64(slowest-fastest)
		}

		red := maxRGB * fraction
		blue := maxRGB - red

		heat, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		err = d.SetLabel(name, avg.String())
		if err != nil {
			return err
		}
		d.store.UpdateVertex(name, func(props *graph.VertexProperties) {
			if props.Attributes == nil {
				props.Attributes = make(map[string]string)
			}
			props.Attributes["fontcolor"] = heat.ToHEX().String()
		})
	}

	return nil
}

// Draw creates a DOT file with the pipeline graph.
func (d *SVGDrawer) Draw() error {
	file, err := os.Create(d.svgFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.svgFileName)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to render dot file %s", d.svgFileName)
	}

	return nil
}

var _ Drawer = (*SVGDrawer)(nil)

const dotTemplate = `strict {{.GraphType}} {
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceWeight     int
	SourceAttributes map[string]string
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], w io.Writer) error {
	desc, err := generateDOT(g)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(w, desc)
}

func generateDOT(g graph.Graph[string, string]) (description, error) {
	desc := description{
		GraphType:    "graph",
		EdgeOperator: "--",
	}

	if g.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := g.AdjacencyMap()
	if err != nil {
		return desc, err
	}

	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}
	sort.Strings(vertices)

	for _, vertex := range vertices {
		_, sourceProperties, err := g.VertexWithProperties(vertex)
		if err != nil {
			return desc, err
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
		})

		targets := make([]string, 0, len(adjacencyMap[vertex]))
		for target := range adjacencyMap[vertex] {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		for _, target := range targets {
			edge := adjacencyMap[vertex][target]
			desc.Statements = append(desc.Statements, statement{
				Source:     vertex,
				Target:     target,
				EdgeWeight: edge.Properties.Weight,
			})
		}
	}

	return desc, nil
}

func renderDOT(w io.Writer, d description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return tpl.Execute(w, d)
}
