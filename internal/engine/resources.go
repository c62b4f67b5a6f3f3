package engine

import (
	"log"

	"github.com/coregx/pdfcore/internal/object"
)

// ResourceCategory names one of a resource dictionary's subcategories.
type ResourceCategory string

const (
	ResourceFont       ResourceCategory = "Font"
	ResourceXObject    ResourceCategory = "XObject"
	ResourceColorSpace ResourceCategory = "ColorSpace"
	ResourcePattern    ResourceCategory = "Pattern"
	ResourceShading    ResourceCategory = "Shading"
	ResourceExtGState  ResourceCategory = "ExtGState"
	ResourceProperties ResourceCategory = "Properties"
)

// ResourceScope is one level of the resource-lookup stack: a content
// stream's own /Resources dictionary, if it has one.
type ResourceScope struct {
	dict *object.Dictionary
}

// ResourceStack implements the resource-lookup fallback order:
// innermost content-stream resources → engine resource slot inherited from
// parent (non-spec but widely relied upon — flagged via logger per
// DESIGN.md's Open Question decision) → page resources → empty scope.
// Its predecessor had no resource inheritance at all (its GraphicsParser
// did no more than font lookup by name); this is new code written in its
// predecessor's field-naming conventions.
type ResourceStack struct {
	scopes []ResourceScope
	page   *object.Dictionary
	logger *log.Logger
}

// NewResourceStack creates a stack seeded with the page's resource
// dictionary as the ultimate fallback.
func NewResourceStack(pageResources *object.Dictionary, logger *log.Logger) *ResourceStack {
	if logger == nil {
		logger = discardLogger()
	}
	return &ResourceStack{page: pageResources, logger: logger}
}

// Push enters a new content stream's resource scope. own may be nil, in
// which case lookups fall through to the engine-wide inherited slot.
func (r *ResourceStack) Push(own *object.Dictionary) func() {
	r.scopes = append(r.scopes, ResourceScope{dict: own})
	return func() {
		if len(r.scopes) > 0 {
			r.scopes = r.scopes[:len(r.scopes)-1]
		}
	}
}

// Lookup resolves name within category, walking innermost-scope first,
// then each enclosing scope (the "engine resource slot inherited from
// parent"), then the page, then reporting absence. A fallback beyond the
// innermost scope is logged at info level so strict-validator
// implementers can detect reliance on it (DESIGN.md Open Question #2).
func (r *ResourceStack) Lookup(category ResourceCategory, name object.Name) (object.Object, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if v, ok := lookupIn(r.scopes[i].dict, category, name); ok {
			if i != len(r.scopes)-1 {
				r.logger.Printf("engine: resource %s/%s resolved via inherited parent scope", category, name)
			}
			return v, true
		}
	}
	if v, ok := lookupIn(r.page, category, name); ok {
		r.logger.Printf("engine: resource %s/%s resolved via page fallback", category, name)
		return v, true
	}
	return object.Null{}, false
}

func lookupIn(dict *object.Dictionary, category ResourceCategory, name object.Name) (object.Object, bool) {
	if dict == nil {
		return nil, false
	}
	cat, ok := dict.GetDictionary(object.Name(category))
	if !ok {
		return nil, false
	}
	if !cat.Has(name) {
		return nil, false
	}
	return cat.Get(name), true
}
