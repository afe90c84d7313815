package graph

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/knakk/rdf"
)

// ErrEmptyInput is returned by Parse for blank input.
var ErrEmptyInput = errors.New("graph input is empty")

// ParseError reports input that could not be decoded as Turtle.
type ParseError struct {
	Triples int   // triples decoded before the failure
	Cause   error // decoder error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse Turtle after %d triple(s): %v", e.Triples, e.Cause)
}

// Unwrap returns the decoder error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parse decodes Turtle text into a graph. Every failure, including a panic
// inside the decoder, is returned as a *ParseError.
func Parse(text string) (g *Graph, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Cause: ErrEmptyInput}
	}

	g = New()
	defer func() {
		if r := recover(); r != nil {
			err = &ParseError{Triples: g.Len(), Cause: fmt.Errorf("decoder panic: %v", r)}
			g = nil
		}
	}()

	dec := rdf.NewTripleDecoder(strings.NewReader(text), rdf.Turtle)
	for {
		tr, derr := dec.Decode()
		if derr == io.EOF {
			break
		}
		if derr != nil {
			return nil, &ParseError{Triples: g.Len(), Cause: derr}
		}
		g.Add(fromRDF(tr.Subj), tr.Pred.String(), fromRDF(tr.Obj))
	}

	return g, nil
}

// fromRDF converts a decoder term into a graph term.
func fromRDF(t rdf.Term) Term {
	switch t.Type() {
	case rdf.TermIRI:
		return NewIRI(t.String())
	case rdf.TermBlank:
		return NewBlank(strings.TrimPrefix(t.String(), "_:"))
	default:
		term := Term{Kind: KindLiteral, Value: t.String()}
		if lit, ok := t.(rdf.Literal); ok {
			term.Datatype = lit.DataType.String()
			term.Lang = lit.Lang()
		}
		return term
	}
}
