package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/crateindex/crateindex/internal/catalog"
	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/duplicate"
	"github.com/crateindex/crateindex/internal/errmsg"
	"github.com/crateindex/crateindex/internal/fuzzyconfig"
	"github.com/crateindex/crateindex/internal/record"
)

var dedupePreset string

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find fuzzy duplicate pairs in the active profile's catalog",
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

		records, err := cat.GetAll()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpCatalogGet, err))
		}

		cfg := ctx.active.Fuzzy
		if dedupePreset != "" {
			cfg, err = presetByName(dedupePreset)
			if err != nil {
				return err
			}
		}

		cb := &dedupeReporter{}
		engine := duplicate.New(ctx.logger)
		err = engine.FindDuplicates(records, cfg, cb)
		fmt.Println()
		if err != nil && !errors.Is(err, catalogerr.ErrCancelled) {
			return errors.New(errmsg.Format(errmsg.OpDuplicateFind, err))
		}

		fmt.Printf("%s preset: found %s duplicate pairs among %s records\n",
			cfg.Name(), humanize.Comma(int64(cb.found)), humanize.Comma(int64(len(records))))
		return nil
	},
}

// dedupeReporter prints duplicates and progress as the engine streams
// them; it is invoked concurrently from multiple workers but Engine
// serializes calls, so no locking is needed here.
type dedupeReporter struct {
	found int
}

func (d *dedupeReporter) OnDuplicateFound(a, b *record.MusicRecord) {
	d.found++
	fmt.Printf("\nduplicate: %q (%s)  <->  %q (%s)",
		displayTitle(a), a.FilePath(), displayTitle(b), b.FilePath())
}

func (d *dedupeReporter) OnProgressUpdate(completed, total int64) {
	fmt.Printf("\rcomparing: %s/%s", humanize.Comma(completed), humanize.Comma(total))
}

func (d *dedupeReporter) IsCancelled() bool { return false }

func displayTitle(r *record.MusicRecord) string {
	if r.Title() != "" {
		return r.Title()
	}
	return "(untitled)"
}

func presetByName(name string) (fuzzyconfig.Config, error) {
	switch name {
	case "strict":
		return fuzzyconfig.Strict, nil
	case "balanced":
		return fuzzyconfig.Balanced, nil
	case "lenient":
		return fuzzyconfig.Lenient, nil
	default:
		return fuzzyconfig.Config{}, fmt.Errorf("unknown preset %q (want strict, balanced or lenient)", name)
	}
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupePreset, "preset", "",
		"fuzzy preset to use instead of the profile's configured thresholds (strict, balanced, lenient)")
	rootCmd.AddCommand(dedupeCmd)
}
