package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/tablodl/internal/recordings"
)

var ipsCmd = &cobra.Command{
	Use:   "ips",
	Short: "List Tablo devices on the local network",
	Args:  cobra.NoArgs,
	RunE:  runIPs,
}

var updateDBCmd = &cobra.Command{
	Use:   "updatedb",
	Short: "Refresh the local recordings cache",
	Long: `Fetches the recording list of every configured, cached, or discovered
device. New recordings are cached with their details and recordings
removed from a device are dropped from the cache.`,
	Args: cobra.NoArgs,
	RunE: runUpdateDB,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "List cached recordings",
	Args:  cobra.NoArgs,
	RunE:  runDump,
}

var detailsCmd = &cobra.Command{
	Use:   "details <recording>",
	Short: "Show recording details",
	Long:  "Shows the details of a recording from the cache, or from the device with --live.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetails,
}

func init() {
	detailsCmd.Flags().Bool("live", false, "Fetch details from the device instead of the cache")

	rootCmd.AddCommand(ipsCmd)
	rootCmd.AddCommand(updateDBCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(detailsCmd)
}

func runIPs(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ips, err := a.tablo.LocalServers(cmd.Context())
	if err != nil {
		return fmt.Errorf("discover devices: %w", err)
	}
	if len(ips) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No Tablo devices found.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ips, ","))
	return nil
}

func runUpdateDB(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	syncer := recordings.NewSyncer(a.tablo, recordings.NewStore(a.db), a.log)
	results, err := syncer.Sync(cmd.Context(), a.cfg.Tablo.IPs)

	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "%-16s error: %v\n", r.Device, r.Err)
			continue
		}
		fmt.Fprintf(out, "%-16s %d added, %d removed\n", r.Device, r.Added, r.Removed)
	}
	return err
}

func runDump(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := recordings.NewStore(a.db).All()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No cached recordings. Run 'tablodl updatedb' first.")
		return nil
	}
	return recordings.Dump(cmd.OutOrStdout(), recs)
}

func runDetails(cmd *cobra.Command, args []string) error {
	live, _ := cmd.Flags().GetBool("live")

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	device, err := a.device(cmd.Context())
	if err != nil {
		return err
	}

	var raw json.RawMessage
	if live {
		raw, err = a.tablo.RecordingDetails(cmd.Context(), device, args[0])
	} else {
		var rec *recordings.Recording
		rec, err = recordings.NewStore(a.db).Get(device, args[0])
		if err == nil {
			raw = rec.Details
		}
	}
	if err != nil {
		return fmt.Errorf("details of %s: %w", args[0], err)
	}
	return printJSON(cmd.OutOrStdout(), raw)
}
