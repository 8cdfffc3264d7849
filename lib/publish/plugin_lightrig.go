// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/slateworks-vfx/slateworks/lib/codec"
	"github.com/slateworks-vfx/slateworks/lib/scene"
	"github.com/slateworks-vfx/slateworks/lib/session"
)

// LightRigPlugin publishes a light rig group plus a render-settings
// preset sidecar next to it, so referencing the rig can restore the
// lighting setup it was built under.
type LightRigPlugin struct{}

func (*LightRigPlugin) Name() string          { return "light-rig" }
func (*LightRigPlugin) ItemFilters() []string { return []string{TypeLightRig} }

func (*LightRigPlugin) Accept(_ *session.Session, settings Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: settings.Get(SettingPublishTemplate) != "", Checked: true}
}

func (*LightRigPlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	rig := item.StringProperty("rig")
	if sess.Scene.Find(rig) == nil {
		return fmt.Errorf("the collected light rig (%s) is no longer in the scene", rig)
	}
	entity := item.StringProperty(PropEntity)
	name := strings.ReplaceAll(entity, "_", "") + capitalize(item.StringProperty("category"))
	item.SetProperty(PropName, name)
	return resolvePublishPath(sess, item, settings, map[string]any{"name": name})
}

func (*LightRigPlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	path := item.StringProperty(PropPath)
	if err := ensureFolder(path); err != nil {
		return err
	}
	rig := sess.Scene.Find(item.StringProperty("rig"))
	if rig == nil {
		return fmt.Errorf("the collected light rig (%s) is no longer in the scene", item.StringProperty("rig"))
	}
	if err := sess.Scene.SaveNodes(path, []*scene.Node{rig}); err != nil {
		return fmt.Errorf("exporting light rig: %w", err)
	}
	if err := writeRenderPreset(sess, rig, item, path+".preset"); err != nil {
		return err
	}
	_, err := registerItem(ctx, sess, item, PublishTypeLightRig)
	return err
}

// renderPreset is the sidecar written next to a light rig publish.
type renderPreset struct {
	Rig         string        `json:"rig"`
	Category    string        `json:"category"`
	HostVersion int           `json:"host_version"`
	Lights      []lightRecord `json:"lights,omitempty"`
}

type lightRecord struct {
	Name      string `json:"name"`
	Intensity string `json:"intensity,omitempty"`
	Color     string `json:"color,omitempty"`
}

func writeRenderPreset(sess *session.Session, rig *scene.Node, item *Item, path string) error {
	preset := renderPreset{
		Rig:         rig.Name(),
		Category:    item.StringProperty("category"),
		HostVersion: sess.HostVersion,
	}
	for _, light := range lightsBelow(rig) {
		preset.Lights = append(preset.Lights, lightRecord{
			Name:      light.Name(),
			Intensity: light.StringAttr("intensity"),
			Color:     light.StringAttr("color"),
		})
	}
	data, err := codec.Marshal(preset)
	if err != nil {
		return fmt.Errorf("encoding render preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing render preset: %w", err)
	}
	return nil
}

func lightsBelow(n *scene.Node) []*scene.Node {
	var lights []*scene.Node
	lights = append(lights, n.ChildrenOfKind(scene.KindLight)...)
	for _, child := range n.ChildrenOfKind(scene.KindTransform) {
		lights = append(lights, lightsBelow(child)...)
	}
	return lights
}

// capitalize upper-cases the first rune and lower-cases the rest,
// matching how rig categories are folded into publish names.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
