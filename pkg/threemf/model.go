package threemf

import "github.com/philipparndt/gomesh/pkg/geometry"

// RootModelPath is the conventional location of the model document
const RootModelPath = "3D/3dmodel.model"

// Plate is a group of build items meant to be printed together
type Plate struct {
	ID        int
	Name      string
	Thumbnail string // archive path, empty if none
	ObjectIDs []int
}

// document is the parsed scene graph of one model file. Property ids use 0
// for "not declared".
type document struct {
	path         string
	objects      map[int]*object
	order        []int
	build        []buildItem
	externalRefs []string
}

type object struct {
	id         int
	pid        int
	triangles  []geometry.Triangle // local coordinates
	components []component
}

type component struct {
	objectID  int
	path      string // empty for the same document
	transform geometry.Matrix
}

type buildItem struct {
	objectID  int
	transform geometry.Matrix
}

// topLevel returns the objects not referenced by any same-document component,
// in declaration order
func (d *document) topLevel() []int {
	referenced := make(map[int]bool)
	for _, obj := range d.objects {
		for _, c := range obj.components {
			if c.path == "" || c.path == d.path {
				referenced[c.objectID] = true
			}
		}
	}
	var ids []int
	for _, id := range d.order {
		if !referenced[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (o *object) triangleCount() int {
	return len(o.triangles)
}
