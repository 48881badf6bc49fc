package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/hearth/pkg/adapters/fs"
	"github.com/aretw0/hearth/pkg/hub"
	"github.com/aretw0/hearth/pkg/repository"
)

func (a *app) stateCmd() *cobra.Command {
	var diagram bool
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the internal state of the hub and its store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			state := h.State().(hub.HubState)
			if diagram {
				config := introspection.DefaultDiagramConfig()
				config.SecondaryID = "hearth"
				config.SecondaryLabel = "Hearth Topology"
				fmt.Fprintln(cmd.OutOrStdout(), introspection.TreeDiagram(buildTree(h, state), config))
				return nil
			}

			t := table{header: []string{"COMPONENT", "KEY", "ITEMS", "OBSERVERS"}}
			for _, rs := range state.Repositories {
				if s, ok := rs.(repository.State); ok {
					t.rows = append(t.rows, []string{s.Kind, s.Key, strconv.Itoa(s.Items), strconv.Itoa(s.Observers)})
				}
			}
			if c, ok := h.Store().(introspection.Component); ok {
				t.rows = append(t.rows, []string{c.ComponentType(), a.cfg.Adapter, "", ""})
			}
			return a.render(cmd.OutOrStdout(), state, t)
		},
	}
	cmd.Flags().BoolVar(&diagram, "diagram", false, "Print a Mermaid diagram")
	return cmd
}

// stateNode is the tree shape rendered by introspection.TreeDiagram.
// Status must match a class of introspection.DefaultStyles().
type stateNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []stateNode
}

func buildTree(h *hub.Hub, state hub.HubState) stateNode {
	root := stateNode{
		Name:     "Hub",
		Status:   "running",
		Metadata: map[string]string{"type": "container"},
	}

	for _, rs := range state.Repositories {
		s, ok := rs.(repository.State)
		if !ok {
			continue
		}
		root.Children = append(root.Children, stateNode{
			Name:   s.Kind,
			Status: "running",
			Metadata: map[string]string{
				"type":  "process",
				"key":   s.Key,
				"items": strconv.Itoa(s.Items),
			},
		})
	}

	store := stateNode{Name: "Store", Status: "running", Metadata: map[string]string{"type": "container"}}
	if c, ok := h.Store().(introspection.Component); ok {
		store.Metadata["component"] = c.ComponentType()
	}
	if fsState, ok := state.Store.(fs.StoreState); ok {
		store.Metadata["path"] = fsState.Path
		watcher := "suspended"
		if fsState.WatcherActive {
			watcher = "running"
		}
		store.Children = append(store.Children, stateNode{
			Name:     "Watcher",
			Status:   watcher,
			Metadata: map[string]string{"type": "goroutine"},
		})
	}
	root.Children = append(root.Children, store)
	return root
}
