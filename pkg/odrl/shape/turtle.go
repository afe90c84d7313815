package shape

import (
	"fmt"
	"sort"
	"strings"

	"mercator-hq/odrlcheck/pkg/odrl/graph"
	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// Turtle renders the shape as SHACL in Turtle syntax. Targets and filters
// without a core SHACL equivalent are rendered as SPARQL-based targets.
// The output is intended for people; Evaluate does not read it.
func (s *Shape) Turtle() string {
	var b strings.Builder

	fmt.Fprintf(&b, "<%s> a sh:NodeShape", s.ID)
	for _, t := range s.Targets {
		b.WriteString(" ;\n    ")
		b.WriteString(t.turtle(s))
	}
	if s.Severity != "" {
		fmt.Fprintf(&b, " ;\n    sh:severity sh:%s", s.Severity)
	}
	if len(s.AtLeastOneOf) > 0 {
		fmt.Fprintf(&b, " ;\n    sh:or ( %s )", presenceList(s.AtLeastOneOf))
	}
	if len(s.ExactlyOneOf) > 0 {
		fmt.Fprintf(&b, " ;\n    sh:xone ( %s )", presenceList(s.ExactlyOneOf))
	}
	if len(s.NoneOf) > 0 {
		fmt.Fprintf(&b, " ;\n    sh:not [ sh:or ( %s ) ]", presenceList(s.NoneOf))
	}
	if s.Message != "" {
		fmt.Fprintf(&b, " ;\n    sh:message %q", s.Message)
	}
	for _, p := range s.Properties {
		b.WriteString(" ;\n    sh:property [\n")
		b.WriteString(p.turtle())
		b.WriteString("    ]")
	}
	b.WriteString(" .\n")
	return b.String()
}

// Document renders shapes as one Turtle document with prefix declarations.
func Document(shapes ...*Shape) string {
	var b strings.Builder

	prefixes := vocab.Prefixes()
	names := make([]string, 0, len(prefixes))
	for p := range prefixes {
		names = append(names, p)
	}
	sort.Strings(names)
	for _, p := range names {
		fmt.Fprintf(&b, "@prefix %s: <%s> .\n", p, prefixes[p])
	}
	fmt.Fprintf(&b, "@prefix odrlcheck: <%s> .\n", ExtensionNS)

	for _, s := range shapes {
		b.WriteString("\n")
		b.WriteString(s.Turtle())
	}
	return b.String()
}

func (t Target) turtle(s *Shape) string {
	filter := s.sparqlFilter()
	switch {
	case t.Kind == TargetClass && filter == "":
		return "sh:targetClass " + iri(t.IRI)
	case t.Kind == TargetObjectsOf && filter == "":
		return "sh:targetObjectsOf " + iri(t.IRI)
	case t.Kind == TargetSubjectsOf && filter == "":
		return "sh:targetSubjectsOf " + iri(t.IRI)
	}

	var pattern string
	switch t.Kind {
	case TargetClass:
		pattern = fmt.Sprintf("?this a %s .", iri(t.IRI))
	case TargetObjectsOf:
		pattern = fmt.Sprintf("?s %s ?this .", iri(t.IRI))
	case TargetSubjectsOf:
		pattern = fmt.Sprintf("?this %s ?o .", iri(t.IRI))
	case TargetSubjectsWithValue:
		pattern = fmt.Sprintf("?this %s %s .", iri(t.IRI), iri(t.Value))
	case TargetListMembersOf:
		pattern = fmt.Sprintf("?s %s/rdf:rest*/rdf:first ?this .", iri(t.IRI))
	}
	return fmt.Sprintf("sh:target [ a sh:SPARQLTarget ; sh:select %q ]",
		"SELECT ?this WHERE { "+pattern+filter+" }")
}

func (s *Shape) sparqlFilter() string {
	var b strings.Builder
	for _, c := range s.Where {
		b.WriteString(" " + c.sparql(false))
	}
	for _, c := range s.Unless {
		b.WriteString(" " + c.sparql(true))
	}
	return b.String()
}

func (c Condition) sparql(negate bool) string {
	var pattern string
	if len(c.In) == 0 {
		pattern = fmt.Sprintf("?this %s ?v", iri(c.Path))
	} else {
		values := make([]string, len(c.In))
		for i, v := range c.In {
			values[i] = iri(v)
		}
		pattern = fmt.Sprintf("?this %s ?v . FILTER(?v IN (%s))", iri(c.Path), strings.Join(values, ", "))
	}
	if negate {
		return "FILTER NOT EXISTS { " + pattern + " }"
	}
	return "FILTER EXISTS { " + pattern + " }"
}

func (p Property) turtle() string {
	var lines []string
	lines = append(lines, "sh:path "+iri(p.Path))
	if p.MinCount > 0 {
		lines = append(lines, fmt.Sprintf("sh:minCount %d", p.MinCount))
	}
	if p.MaxCount > 0 {
		lines = append(lines, fmt.Sprintf("sh:maxCount %d", p.MaxCount))
	}
	if p.NodeKind != NodeKindAny {
		lines = append(lines, "sh:nodeKind sh:"+p.NodeKind.String())
	}
	if len(p.In) > 0 {
		values := make([]string, len(p.In))
		for i, v := range p.In {
			values[i] = iri(v)
		}
		lines = append(lines, "sh:in ( "+strings.Join(values, " ")+" )")
	}
	if len(p.Scope) > 0 {
		values := make([]string, len(p.Scope))
		for i, v := range p.Scope {
			values[i] = iri(v)
		}
		lines = append(lines, "odrlcheck:inScope ( "+strings.Join(values, " ")+" )")
	}
	if p.MinMembers > 0 {
		lines = append(lines, fmt.Sprintf("odrlcheck:minMembers %d", p.MinMembers))
	}
	if p.Message != "" {
		lines = append(lines, fmt.Sprintf("sh:message %q", p.Message))
	}
	return "        " + strings.Join(lines, " ;\n        ") + "\n"
}

func presenceList(paths []string) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = fmt.Sprintf("[ sh:path %s ; sh:minCount 1 ]", iri(p))
	}
	return strings.Join(parts, " ")
}

func iri(s string) string {
	return graph.NewIRI(s).Turtle()
}
