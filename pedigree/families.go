package pedigree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Families groups individuals that are connected through registered
// parent-child links. Each family lists identifiers in rank order, and the
// families are ordered by the rank of their first member. Individuals without
// any registered relative form a family of one.
func (g *Graph) Families() [][]string {
	ug := simple.NewUndirectedGraph()
	for _, ind := range g.individuals {
		ug.AddNode(simple.Node(ind.Rank))
	}

	for _, ind := range g.individuals {
		for _, parent := range g.registeredParents(ind) {
			if parent.Rank == ind.Rank {
				continue
			}
			ug.SetEdge(ug.NewEdge(simple.Node(parent.Rank), simple.Node(ind.Rank)))
		}
	}

	components := topo.ConnectedComponents(ug)
	families := make([][]string, 0, len(components))
	for _, component := range components {
		ranks := lo.Map(component, func(n graph.Node, _ int) int { return int(n.ID()) })
		sort.Ints(ranks)
		families = append(families, lo.Map(ranks, func(rank int, _ int) string { return g.individuals[rank].ID }))
	}

	sort.Slice(families, func(i, j int) bool {
		return g.byID[families[i][0]] < g.byID[families[j][0]]
	})

	return families
}

// FamilyIndex maps each individual's identifier to the zero-based index of its
// family in Families.
func (g *Graph) FamilyIndex() map[string]int {
	out := make(map[string]int, len(g.individuals))
	for i, family := range g.Families() {
		for _, id := range family {
			out[id] = i
		}
	}

	return out
}

// Problem is a structural oddity in the pedigree. Problems are reported but
// never stop processing.
type Problem struct {
	Individual string
	Reason     string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Individual, p.Reason)
}

// Diagnose looks for individuals listed as their own parent, individuals used
// both as a father and as a mother, and ancestry cycles.
func (g *Graph) Diagnose() []Problem {
	problems := make([]Problem, 0)

	asFather := make(map[string]struct{})
	asMother := make(map[string]struct{})

	dg := simple.NewDirectedGraph()
	for _, ind := range g.individuals {
		dg.AddNode(simple.Node(ind.Rank))
	}

	for _, ind := range g.individuals {
		if ind.Father == ind.ID || ind.Mother == ind.ID {
			problems = append(problems, Problem{Individual: ind.ID, Reason: "listed as its own parent"})
		}

		if father, exists := g.Father(ind); exists {
			asFather[father.ID] = struct{}{}
			if father.Rank != ind.Rank {
				dg.SetEdge(dg.NewEdge(simple.Node(father.Rank), simple.Node(ind.Rank)))
			}
		}
		if mother, exists := g.Mother(ind); exists {
			asMother[mother.ID] = struct{}{}
			if mother.Rank != ind.Rank {
				dg.SetEdge(dg.NewEdge(simple.Node(mother.Rank), simple.Node(ind.Rank)))
			}
		}
	}

	for _, ind := range g.individuals {
		_, isFather := asFather[ind.ID]
		_, isMother := asMother[ind.ID]
		if isFather && isMother {
			problems = append(problems, Problem{Individual: ind.ID, Reason: "used both as a father and as a mother"})
		}
	}

	if _, err := topo.Sort(dg); err != nil {
		if cycles, ok := err.(topo.Unorderable); ok {
			for _, cycle := range cycles {
				ranks := lo.Map(cycle, func(n graph.Node, _ int) int { return int(n.ID()) })
				sort.Ints(ranks)
				ids := lo.Map(ranks, func(rank int, _ int) string { return g.individuals[rank].ID })
				problems = append(problems, Problem{
					Individual: ids[0],
					Reason:     "is its own ancestor through " + strings.Join(ids, ", "),
				})
			}
		}
	}

	return problems
}

// LogDiagnostics writes each Problem found by Diagnose as a warning and returns
// how many there were.
func (g *Graph) LogDiagnostics() int {
	problems := g.Diagnose()
	for _, p := range problems {
		log.WithField("individual", p.Individual).Warn(p.Reason)
	}

	return len(problems)
}

func (g *Graph) registeredParents(ind *Individual) []*Individual {
	out := make([]*Individual, 0, 2)
	if father, exists := g.Father(ind); exists {
		out = append(out, father)
	}
	if mother, exists := g.Mother(ind); exists && (len(out) == 0 || out[0] != mother) {
		out = append(out, mother)
	}

	return out
}
