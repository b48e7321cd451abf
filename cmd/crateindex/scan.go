package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/crateindex/crateindex/internal/catalog"
	"github.com/crateindex/crateindex/internal/errmsg"
	"github.com/crateindex/crateindex/internal/record"
	"github.com/crateindex/crateindex/internal/scan"
	"github.com/crateindex/crateindex/internal/tagscan"
)

var scanClear bool

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Walk a directory and index matching audio files into the active profile's catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newAppContext()
		if err != nil {
			return err
		}

		cat := catalog.New()
		if err := cat.Initialize(ctx.active.DatabasePath); err != nil {
			return errors.New(errmsg.Format(errmsg.OpCatalogInitialize, err))
		}
		defer cat.Shutdown()

		before, err := cat.Count()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpCatalogGet, err))
		}

		if scanClear {
			if err := cat.ClearAll(); err != nil {
				return errors.New(errmsg.Format(errmsg.OpCatalogClear, err))
			}
		}

		scanner := scan.New(tagscan.Extractor{}, ctx.logger)

		var failures int
		start := time.Now()

		err = scanner.Scan(args[0], ctx.active.EnabledFileTypes,
			func(r *record.MusicRecord) {
				if err := cat.Save(r); err != nil {
					failures++
					ctx.logger.Warn("failed to save scanned record", "path", r.FilePath(), "error", err)
				}
			},
			func(filesSeen, filesMatched int, currentDir string) {
				fmt.Printf("\rscanning: %s seen, %s matched  %s",
					humanize.Comma(int64(filesSeen)), humanize.Comma(int64(filesMatched)), currentDir)
			},
			nil,
		)
		fmt.Println()
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpScanWalk, args[0], err))
		}

		after, err := cat.Count()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpCatalogGet, err))
		}

		fmt.Printf("catalog now holds %s records (%+d since start), in %s\n",
			humanize.Comma(int64(after)), after-before, time.Since(start).Round(time.Millisecond))
		if failures > 0 {
			fmt.Printf("%d records failed to save; see log output for details\n", failures)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanClear, "clear", false, "clear the catalog before scanning (full re-scan)")
	rootCmd.AddCommand(scanCmd)
}
