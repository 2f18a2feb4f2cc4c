package cli

import (
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheOlderThan time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the conditional request cache",
	Long: `Responses carrying an ETag are cached so repeated scans can revalidate them
with If-None-Match. GitHub does not count 304 responses against the quota.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached responses",
	Long:  `Removes every cached response, or with --older-than only stale ones.`,
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheClearCmd.Flags().DurationVar(&cacheOlderThan, "older-than", 0, "only remove entries not refreshed for this long (e.g. 720h)")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if cacheStore == nil {
		return errors.New("cache not available")
	}
	stats, err := cacheStore.Stats(commandContext(cmd))
	if err != nil {
		return err
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Label.Render("Path") + cacheStore.Path())
	cmd.Println(st.Label.Render("Entries") + humanize.Comma(int64(stats.Entries)))
	cmd.Println(st.Label.Render("Size") + humanize.Bytes(uint64(stats.Bytes)))
	if !stats.Oldest.IsZero() {
		cmd.Println(st.Label.Render("Oldest") + humanize.Time(stats.Oldest))
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if cacheStore == nil {
		return errors.New("cache not available")
	}

	ctx := commandContext(cmd)
	var n int64
	var err error
	if cacheOlderThan > 0 {
		n, err = cacheStore.Prune(ctx, time.Now().Add(-cacheOlderThan))
	} else {
		n, err = cacheStore.Clear(ctx)
	}
	if err != nil {
		return err
	}
	cmd.Printf("Removed %s cached responses.\n", humanize.Comma(n))
	return nil
}
