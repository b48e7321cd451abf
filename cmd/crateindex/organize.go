package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crateindex/crateindex/internal/catalog"
	"github.com/crateindex/crateindex/internal/errmsg"
	"github.com/crateindex/crateindex/internal/fileops"
	"github.com/crateindex/crateindex/internal/organize"
)

var organizeDest string

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Copy every catalog record into place under a destination root, using the active profile's template",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newAppContext()
		if err != nil {
			return err
		}
		if organizeDest == "" {
			return fmt.Errorf("--dest is required")
		}

		cat := catalog.New()
		if err := cat.Initialize(ctx.active.DatabasePath); err != nil {
			return errors.New(errmsg.Format(errmsg.OpCatalogInitialize, err))
		}
		defer cat.Shutdown()

		records, err := cat.GetAll()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpCatalogGet, err))
		}

		tmpl, err := ctx.active.Template.Compile()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpTemplateParse, err))
		}

		levels := ctx.active.Template.SubdirectoryLevels
		if levels < 1 {
			levels = 1
		}

		org := organize.New(fileops.OS{}, ctx.logger)
		report, err := org.Organize(records, tmpl, organizeDest, levels,
			func(completed, total int, lastTarget string) {
				fmt.Printf("\rorganizing: %d/%d  %s", completed, total, lastTarget)
			},
			nil,
		)
		fmt.Println()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpOrganizeCopy, err))
		}

		fmt.Printf("%d copied, %d already in place, %d failed\n",
			report.Succeeded, report.Skipped, len(report.Failures))
		for _, f := range report.Failures {
			fmt.Printf("  failed: %s: %v\n", f.Record.FilePath(), f.Err)
		}
		return nil
	},
}

func init() {
	organizeCmd.Flags().StringVar(&organizeDest, "dest", "", "destination root directory (required)")
	rootCmd.AddCommand(organizeCmd)
}
