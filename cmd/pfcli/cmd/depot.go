package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turnforge/ttdpf/config"
	"github.com/turnforge/ttdpf/follower"
	"github.com/turnforge/ttdpf/pfcontext"
	"github.com/turnforge/ttdpf/worldmap"
)

var (
	depotFrom       string
	depotMaxPenalty int64
)

// depotCmd runs pfcontext.FindNearestDepot (spec §6 "find_nearest_depot").
var depotCmd = &cobra.Command{
	Use:   "depot",
	Short: "Find the nearest rail depot reachable from an origin",
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
		origin, originTd, err := parseTileTrackdir(m.Size, depotFrom)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}

		ctx := pfcontext.New(m, config.Default())
		opts := follower.Options{Transport: worldmap.TransportRail, Owner: owner}

		depot, ok := ctx.FindNearestDepot(opts, origin, originTd, depotMaxPenalty)
		if !ok {
			fmt.Println("found=false")
			return nil
		}
		fmt.Printf("found=true tile_x=%d tile_y=%d\n", m.Size.X(depot), m.Size.Y(depot))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(depotCmd)
	depotCmd.Flags().StringVar(&depotFrom, "from", "", "origin as x,y,TD (required)")
	depotCmd.Flags().Int64Var(&depotMaxPenalty, "max-penalty", 0, "maximum search cost, 0 = no limit")
	depotCmd.MarkFlagRequired("from")
}
