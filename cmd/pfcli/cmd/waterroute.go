package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turnforge/ttdpf/config"
	"github.com/turnforge/ttdpf/pfcontext"
)

var (
	waterRouteFrom   string
	waterRouteTo     string
	waterRouteMaxLen int
)

// waterRouteCmd runs pfcontext.ShipFindWaterRegionPath (spec §6
// "ship_find_water_region_path"), printing the chain of region/patch hops
// the tile-level ship search would then be restricted to.
var waterRouteCmd = &cobra.Command{
	Use:   "water-route",
	Short: "Find the hierarchical water-region route between two tiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := getMapFile()
		if err != nil {
			return err
		}
		owner := getOwner()
		m, err := loadMap(path, owner)
		if err != nil {
			return err
		}
		origin, err := parseTile(m.Size, waterRouteFrom)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		dest, err := parseTile(m.Size, waterRouteTo)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}

		ctx := pfcontext.New(m, config.Default())
		hops, ok := ctx.ShipFindWaterRegionPath(origin, dest, waterRouteMaxLen)
		if !ok {
			fmt.Println("found=false")
			return nil
		}
		parts := make([]string, len(hops))
		for i, h := range hops {
			parts[i] = fmt.Sprintf("(%d,%d)#%d", h.RegionX, h.RegionY, h.Patch)
		}
		fmt.Printf("found=true hops=%s\n", strings.Join(parts, " -> "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(waterRouteCmd)
	waterRouteCmd.Flags().StringVar(&waterRouteFrom, "from", "", "origin tile as x,y (required)")
	waterRouteCmd.Flags().StringVar(&waterRouteTo, "to", "", "destination tile as x,y (required)")
	waterRouteCmd.Flags().IntVar(&waterRouteMaxLen, "max-len", 0, "maximum number of region hops to return, 0 = no limit")
	waterRouteCmd.MarkFlagRequired("from")
	waterRouteCmd.MarkFlagRequired("to")
}
