package recordings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"
)

// DefaultSyncConcurrency bounds how many devices are queried at once.
const DefaultSyncConcurrency = 4

// DeviceAPI is the subset of the Tablo client used for syncing.
type DeviceAPI interface {
	LocalServers(ctx context.Context) ([]string, error)
	Recordings(ctx context.Context, device string) ([]string, error)
	RecordingDetails(ctx context.Context, device, recording string) (json.RawMessage, error)
}

// SyncResult reports what changed for one device.
type SyncResult struct {
	Device  string
	Added   int
	Removed int
	Err     error
}

// Syncer refreshes the recordings cache from devices.
type Syncer struct {
	api         DeviceAPI
	store       *Store
	log         *slog.Logger
	concurrency int
}

// NewSyncer creates a Syncer.
func NewSyncer(api DeviceAPI, store *Store, log *slog.Logger) *Syncer {
	return &Syncer{
		api:         api,
		store:       store,
		log:         log.With("component", "sync"),
		concurrency: DefaultSyncConcurrency,
	}
}

type devicePlan struct {
	added   []*Recording
	removed []string
}

// Sync fetches the recording list of every known device, drops cached
// recordings that no longer exist, and caches details of new ones.
// Devices are the union of configured, previously cached, and, when both are
// empty, discovered ones. A failing device does not stop the others; its error
// is reported in its SyncResult and joined into the returned error.
func (s *Syncer) Sync(ctx context.Context, configured []string) ([]SyncResult, error) {
	devices, err := s.devices(ctx, configured)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		s.log.Warn("no tablo devices found")
		return nil, nil
	}

	cached := make([]map[string]bool, len(devices))
	for i, d := range devices {
		recs, err := s.store.List(d)
		if err != nil {
			return nil, err
		}
		cached[i] = make(map[string]bool, len(recs))
		for _, r := range recs {
			cached[i][r.Path] = true
		}
	}

	results := make([]SyncResult, len(devices))
	plans := make([]devicePlan, len(devices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, device := range devices {
		g.Go(func() error {
			results[i].Device = device
			plan, err := s.fetch(gctx, device, cached[i])
			if err != nil {
				s.log.Error("device sync failed", "device", device, "error", err)
				results[i].Err = err
				return nil
			}
			plans[i] = plan
			return nil
		})
	}
	_ = g.Wait()

	// Writes happen here, serially, after all fetches.
	var errs []error
	for i := range devices {
		if results[i].Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", devices[i], results[i].Err))
			continue
		}
		for _, path := range plans[i].removed {
			if err := s.store.Delete(devices[i], path); err != nil {
				return results, err
			}
			results[i].Removed++
		}
		for _, r := range plans[i].added {
			if err := s.store.Put(r); err != nil {
				return results, err
			}
			results[i].Added++
		}
		s.log.Info("device synced", "device", devices[i], "added", results[i].Added, "removed", results[i].Removed)
	}
	return results, errors.Join(errs...)
}

func (s *Syncer) devices(ctx context.Context, configured []string) ([]string, error) {
	seen := make(map[string]bool)
	var devices []string
	add := func(ds []string) {
		for _, d := range ds {
			if d != "" && !seen[d] {
				seen[d] = true
				devices = append(devices, d)
			}
		}
	}

	add(configured)
	known, err := s.store.Devices()
	if err != nil {
		return nil, err
	}
	add(known)

	if len(devices) == 0 {
		discovered, err := s.api.LocalServers(ctx)
		if err != nil {
			return nil, fmt.Errorf("discover devices: %w", err)
		}
		add(discovered)
	}
	sort.Strings(devices)
	return devices, nil
}

func (s *Syncer) fetch(ctx context.Context, device string, cached map[string]bool) (devicePlan, error) {
	var plan devicePlan

	paths, err := s.api.Recordings(ctx, device)
	if err != nil {
		return plan, err
	}

	current := make(map[string]bool, len(paths))
	for _, p := range paths {
		current[p] = true
	}
	for p := range cached {
		if !current[p] {
			plan.removed = append(plan.removed, p)
		}
	}
	sort.Strings(plan.removed)

	for _, p := range paths {
		if cached[p] {
			continue
		}
		details, err := s.api.RecordingDetails(ctx, device, p)
		if err != nil {
			return plan, fmt.Errorf("details of %s: %w", p, err)
		}
		s.log.Debug("new recording", "device", device, "path", p)
		plan.added = append(plan.added, &Recording{
			Device:   device,
			Path:     p,
			Category: CategoryOf(p),
			Details:  details,
		})
	}
	return plan, nil
}
