package download

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/vmunix/tablodl/internal/download DeviceAPI,Transcoder

import (
	"context"

	"github.com/vmunix/tablodl/pkg/tablo"
)

// DeviceAPI is the subset of the Tablo client used for downloads.
type DeviceAPI interface {
	Watch(ctx context.Context, device, recording string) (*tablo.Playlist, error)
	PlaylistM3U(ctx context.Context, p *tablo.Playlist) (string, error)
	DeleteRecording(ctx context.Context, device, recording string) error
}

// Transcoder copies an HLS playlist into a single MP4 file.
type Transcoder interface {
	Transcode(ctx context.Context, playlist, dest, title string) error
}
