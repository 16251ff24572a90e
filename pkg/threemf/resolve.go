package threemf

import (
	"sort"

	"github.com/philipparndt/gomesh/internal/parallel"
	"github.com/philipparndt/gomesh/pkg/geometry"
)

type objectRef struct {
	path string
	id   int
}

// emission is one object mesh placed in the world by the walk
type emission struct {
	obj       *object
	transform geometry.Matrix
	property  int
	root      int // object id of the build item this mesh belongs to
}

type resolver struct {
	root     *document
	external map[string]*document // nil entries are referenced but missing files
	settings *settings
}

// resolveProperty picks the effective property (extruder) id of a node.
// Precedence, first non-zero wins:
//
//  1. the per-part override for (parent object, this object)
//  2. the parent object's default override
//  3. the id declared on the object itself
//  4. the id inherited from the parent node
func resolveProperty(partOverride, parentDefault, own, inherited int) int {
	for _, id := range [...]int{partOverride, parentDefault, own, inherited} {
		if id != 0 {
			return id
		}
	}
	return 0
}

// emissions walks every build item, or every top-level object when the
// document has no build section, and collects the placed object meshes
func (r *resolver) emissions() ([]emission, error) {
	var out []emission

	type start struct {
		id        int
		transform geometry.Matrix
	}
	var starts []start
	if len(r.root.build) > 0 {
		for _, item := range r.root.build {
			starts = append(starts, start{id: item.objectID, transform: item.transform})
		}
	} else {
		for _, id := range r.root.topLevel() {
			starts = append(starts, start{id: id, transform: geometry.Identity()})
		}
	}

	for _, s := range starts {
		obj, ok := r.root.objects[s.id]
		if !ok {
			return nil, referenceError(ErrUnknownObject, "build item references object %d", s.id)
		}
		// at the root the object is its own parent for override lookups
		if err := r.walk(r.root, obj, s.transform, obj.id, 0, obj.id, make(map[objectRef]bool), &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *resolver) walk(doc *document, obj *object, transform geometry.Matrix, parentID, inherited, root int, onPath map[objectRef]bool, out *[]emission) error {
	ref := objectRef{path: doc.path, id: obj.id}
	if onPath[ref] {
		return referenceError(ErrCyclicComponent, "object %d in %s references itself", obj.id, doc.path)
	}
	onPath[ref] = true
	defer delete(onPath, ref)

	property := resolveProperty(
		r.settings.partOverride(parentID, obj.id),
		r.settings.parentDefault(parentID),
		obj.pid,
		inherited,
	)

	if obj.triangleCount() > 0 {
		*out = append(*out, emission{obj: obj, transform: transform, property: property, root: root})
	}

	for _, c := range obj.components {
		childDoc, ok := r.document(doc, c.path)
		if !ok {
			continue
		}
		child, ok := childDoc.objects[c.objectID]
		if !ok {
			return referenceError(ErrUnknownObject, "component of object %d references object %d in %s",
				obj.id, c.objectID, childDoc.path)
		}
		if err := r.walk(childDoc, child, transform.Mul(c.transform), obj.id, property, root, onPath, out); err != nil {
			return err
		}
	}
	return nil
}

// document returns the model a component path points into. ok is false for
// external files missing from the archive.
func (r *resolver) document(current *document, path string) (*document, bool) {
	switch path {
	case "":
		return current, true
	case r.root.path:
		return r.root, true
	}
	doc := r.external[path]
	return doc, doc != nil
}

// emitTriangles transforms and colors every emitted triangle into one
// pre-sized buffer. spans[i] is the buffer range of jobs[i].
func emitTriangles(jobs []emission, palette Palette, workers int) ([]geometry.Triangle, []parallel.Range) {
	spans := make([]parallel.Range, len(jobs))
	total := 0
	for i, job := range jobs {
		spans[i] = parallel.Range{Start: total, End: total + job.obj.triangleCount()}
		total = spans[i].End
	}

	out := make([]geometry.Triangle, total)
	fill := func(r parallel.Range) {
		j := sort.Search(len(spans), func(k int) bool { return spans[k].End > r.Start })
		for i := r.Start; i < r.End; i++ {
			for spans[j].End <= i {
				j++
			}
			out[i] = place(jobs[j], jobs[j].obj.triangles[i-spans[j].Start], palette)
		}
	}

	if total > parallel.TriangleThreshold {
		parallel.For(total, workers, fill)
	} else if total > 0 {
		fill(parallel.Range{Start: 0, End: total})
	}
	return out, spans
}

func place(job emission, t geometry.Triangle, palette Palette) geometry.Triangle {
	if !job.transform.IsIdentity() {
		t = t.Transform(job.transform)
	}
	if !t.Color.IsSet() {
		if c, ok := palette.Lookup(job.property); ok {
			t = t.WithColor(c)
		}
	}
	return t
}
