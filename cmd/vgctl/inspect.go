package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cuemby/vgctl/pkg/inventory"
	"github.com/cuemby/vgctl/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show volume groups and physical volumes",
	Long: `Inspect runs the same inventory queries apply uses and prints the
result. It never modifies the system.

Examples:
  # Everything, as tables
  vgctl inspect

  # One group as YAML
  vgctl inspect --group vg_data -o yaml`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("group", "", "Only show this volume group and its devices")
	inspectCmd.Flags().StringP("output", "o", "table", "Output format (table, json, yaml)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	group, _ := cmd.Flags().GetString("group")
	format, _ := cmd.Flags().GetString("output")

	querier := inventory.NewQuerier(newRunner(appConfig), appConfig.Tools)
	inv, err := querier.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	if group != "" {
		inv = filterInventory(inv, group)
	}

	return printValue(cmd.OutOrStdout(), format, inv, func(w io.Writer) error {
		return printInventoryTable(w, inv)
	})
}

// filterInventory keeps one group and the devices that belong to it
func filterInventory(inv *types.Inventory, group string) *types.Inventory {
	out := &types.Inventory{Groups: []types.GroupRecord{}, Devices: []types.DeviceRecord{}}
	if g := inv.FindGroup(group); g != nil {
		out.Groups = append(out.Groups, *g)
	}
	for _, d := range inv.Devices {
		if d.Group == group {
			out.Devices = append(out.Devices, d)
		}
	}
	return out
}

func printInventoryTable(w io.Writer, inv *types.Inventory) error {
	if len(inv.Groups) == 0 {
		printEmpty(w, "No volume groups")
	} else {
		rows := make([][]string, 0, len(inv.Groups))
		for _, g := range inv.Groups {
			rows = append(rows, []string{g.Name, strconv.Itoa(g.DeviceCount), strconv.Itoa(g.VolumeCount)})
		}
		printTable(w, []string{"GROUP", "DEVICES", "VOLUMES"}, rows)
	}
	fmt.Fprintln(w)

	if len(inv.Devices) == 0 {
		printEmpty(w, "No physical volumes")
		return nil
	}
	rows := make([][]string, 0, len(inv.Devices))
	for _, d := range inv.Devices {
		owner := d.Group
		if d.Unowned() {
			owner = "-"
		}
		rows = append(rows, []string{d.Name, owner})
	}
	printTable(w, []string{"DEVICE", "GROUP"}, rows)
	return nil
}
