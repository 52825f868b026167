package model

import "github.com/san-kum/tgsim/internal/world"

// Visitor walks a model tree.
type Visitor interface {
	VisitModel(m *Model)
	VisitBody(owner *Model, b world.Body)
}

// Visit calls v for the model, then each owned body, then recurses into
// child models.
func (m *Model) Visit(v Visitor) {
	v.VisitModel(m)
	for _, b := range m.bodies {
		v.VisitBody(m, b)
	}
	for _, c := range m.children {
		if child, ok := c.(interface{ Visit(Visitor) }); ok {
			child.Visit(v)
		}
	}
}
