package graph

import "errors"

var (
	// ErrDuplicateVertex is returned by Builder.Build when the same global
	// id was added to a fragment more than once.
	ErrDuplicateVertex = errors.New("duplicate vertex")

	// ErrUnknownVertex is returned when an edge references a local
	// endpoint that was never added to the fragment.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrNoLocalEndpoint is returned by Builder.AddEdge when neither
	// endpoint of the edge belongs to the fragment.
	ErrNoLocalEndpoint = errors.New("edge has no endpoint in this fragment")
)
