// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package loader brings published files into the open scene. Each
// published file type supports a subset of the actions here:
// referencing, importing, texture node creation, and image planes.
// Several file types carry extra behavior on load, like shader
// hookup resolution for shader networks and cache binding for
// simulated groom curves.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/slateworks-vfx/slateworks/lib/session"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

// Action identifies one loader operation.
type Action string

const (
	// ActionReference adds the file to the scene as a reference.
	ActionReference Action = "reference"
	// ActionImport merges the file's contents into the scene.
	ActionImport Action = "import"
	// ActionTextureNode creates a file texture node.
	ActionTextureNode Action = "texture_node"
	// ActionUDIMTextureNode creates a file texture node in UDIM
	// tiling mode.
	ActionUDIMTextureNode Action = "udim_texture_node"
	// ActionImagePlane creates an image plane.
	ActionImagePlane Action = "image_plane"
)

// ParseAction converts a configuration string into an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionReference, ActionImport, ActionTextureNode, ActionUDIMTextureNode, ActionImagePlane:
		return Action(s), nil
	default:
		return "", fmt.Errorf("loader: unknown action %q", s)
	}
}

// Instance is one concrete action offered for a publish, with
// display strings for the host UI.
type Instance struct {
	Action      Action
	Caption     string
	Description string
}

// GenerateActions maps the requested action names onto concrete
// instances for a publish. Actions the host cannot perform are
// silently dropped: UDIM texture nodes need host version 2015 or
// later.
func GenerateActions(sess *session.Session, requested []Action) []Instance {
	var instances []Instance
	for _, action := range requested {
		switch action {
		case ActionReference:
			instances = append(instances, Instance{
				Action:      ActionReference,
				Caption:     "Create Reference",
				Description: "This will add the item to the scene as a standard reference.",
			})
		case ActionImport:
			instances = append(instances, Instance{
				Action:      ActionImport,
				Caption:     "Import into Scene",
				Description: "This will import the item into the current scene.",
			})
		case ActionTextureNode:
			instances = append(instances, Instance{
				Action:      ActionTextureNode,
				Caption:     "Create Texture Node",
				Description: "Creates a file texture node for the selected item.",
			})
		case ActionUDIMTextureNode:
			if sess.HostVersion >= 2015 {
				instances = append(instances, Instance{
					Action:      ActionUDIMTextureNode,
					Caption:     "Create Texture Node",
					Description: "Creates a file texture node for the selected item.",
				})
			}
		case ActionImagePlane:
			instances = append(instances, Instance{
				Action:      ActionImagePlane,
				Caption:     "Create Image Plane",
				Description: "Creates an image plane for the selected item.",
			})
		}
	}
	return instances
}

// Request pairs an action with the publish it applies to.
type Request struct {
	Action  Action
	Publish track.Record
}

// ExecuteAll runs each request in order, stopping at the first
// failure.
func ExecuteAll(sess *session.Session, requests []Request) error {
	for _, request := range requests {
		if err := Execute(sess, request.Action, request.Publish); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs a single action against a publish record. The record
// must carry path, name, and published_file_type fields.
func Execute(sess *session.Session, action Action, publish track.Record) error {
	path := publish.String("path")
	if path == "" {
		return fmt.Errorf("loader: publish %d has no path", publish.ID())
	}
	sess.Logger.Info("executing loader action",
		"action", string(action),
		"path", path,
		"publish_type", publish.String("published_file_type"),
	)

	switch action {
	case ActionReference:
		return createReference(sess, path, publish)
	case ActionImport:
		return doImport(sess, path, publish)
	case ActionTextureNode:
		_, err := createTextureNodes(sess, path, publish)
		return err
	case ActionUDIMTextureNode:
		_, err := createUDIMTextureNode(sess, path)
		return err
	case ActionImagePlane:
		_, err := createImagePlane(sess, path)
		return err
	default:
		return fmt.Errorf("loader: unknown action %q", action)
	}
}

// publishNamespace derives the namespace for referenced or imported
// nodes from the publish name: everything before the first dot, with
// spaces flattened to underscores.
func publishNamespace(publish track.Record) string {
	name, _, _ := strings.Cut(publish.String("name"), ".")
	return strings.ReplaceAll(name, " ", "_")
}

func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("loader: file not found on disk: %s", path)
	}
	return nil
}
