// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package publish

// Item type identifiers produced by the Collector. Plugins select
// items by glob-matching these (see Plugin.ItemFilters).
const (
	TypeSession       = "scene.session"
	TypeGeometry      = "scene.geometry"
	TypeMesh          = "scene.mesh"
	TypeCamera        = "scene.camera"
	TypeFBX           = "scene.fbx"
	TypeUVMap         = "scene.uvmap"
	TypeGroom         = "scene.groom"
	TypeGroomShader   = "scene.groom.shader"
	TypeGroomGeometry = "scene.groom.geometry"
	TypeLightRig      = "scene.lightrig"
	TypeSimCurve      = "scene.simcurve"
	TypeAssembly      = "scene.assembly"
	TypeAlembicFile   = "file.alembic"
	TypeImageSequence = "file.image.sequence"
)

// Well-known item property keys. Collector writes the identity
// properties; plugins write the output properties during validation.
const (
	// PropWorkTemplate names the template that parses the session
	// path. Set on the session item; looked up by inheritance.
	PropWorkTemplate = "work_template"

	// PropEntity and PropTask identify what the publish links to.
	// Set on the root item.
	PropEntity = "entity"
	PropTask   = "task"

	// PropPath is the resolved publish output path.
	PropPath = "path"

	// PropName is the display name registered with tracking.
	PropName = "publish_name"

	// PropVersion is the publish version, taken from the work file.
	PropVersion = "publish_version"

	// PropType is the published file type, recorded after a
	// successful registration.
	PropType = "publish_type"
)

// Item is one node of the collected publish tree. The root is a bare
// container; the session item and its children carry the publishable
// content.
type Item struct {
	itemType    string
	displayType string
	name        string

	parent     *Item
	children   []*Item
	properties map[string]any

	// Checked marks the item for publishing. Collector-created items
	// start checked; an artist (or test) unchecks to skip.
	Checked bool

	// Expanded is a presentation hint for tree UIs.
	Expanded bool

	tasks []*Task
}

// NewRoot returns an empty tree root. The root itself is never
// published; it exists to anchor inherited properties.
func NewRoot() *Item {
	return &Item{
		itemType:    "root",
		displayType: "Root",
		name:        "root",
		properties:  make(map[string]any),
	}
}

// Create adds a child item.
func (i *Item) Create(itemType, displayType, name string) *Item {
	child := &Item{
		itemType:    itemType,
		displayType: displayType,
		name:        name,
		parent:      i,
		properties:  make(map[string]any),
		Checked:     true,
		Expanded:    true,
	}
	i.children = append(i.children, child)
	return child
}

// Type returns the item type identifier plugins filter on.
func (i *Item) Type() string { return i.itemType }

// DisplayType returns the human-readable type label.
func (i *Item) DisplayType() string { return i.displayType }

// Name returns the item's display name.
func (i *Item) Name() string { return i.name }

// Parent returns the parent item, nil for the root.
func (i *Item) Parent() *Item { return i.parent }

// Children returns the item's children in creation order.
func (i *Item) Children() []*Item { return i.children }

// Root walks up to the tree root.
func (i *Item) Root() *Item {
	n := i
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// SetProperty stores a property on the item.
func (i *Item) SetProperty(key string, value any) {
	i.properties[key] = value
}

// Property returns a property set on the item itself.
func (i *Item) Property(key string) (any, bool) {
	v, ok := i.properties[key]
	return v, ok
}

// InheritedProperty returns the property from the item or its nearest
// ancestor that carries it. Templates and entity links are stored on
// the session or root item and picked up here.
func (i *Item) InheritedProperty(key string) (any, bool) {
	for n := i; n != nil; n = n.parent {
		if v, ok := n.properties[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// StringProperty returns an inherited property as a string, "" when
// absent or not a string.
func (i *Item) StringProperty(key string) string {
	if v, ok := i.InheritedProperty(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IntProperty returns an inherited property as an int, 0 when absent.
func (i *Item) IntProperty(key string) int {
	v, ok := i.InheritedProperty(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// Walk visits the item and every descendant depth-first.
func (i *Item) Walk(visit func(*Item)) {
	visit(i)
	for _, c := range i.children {
		c.Walk(visit)
	}
}
