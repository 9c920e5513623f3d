package store

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"cotiza/internal/types"
)

// Archive is the backup payload: both collections plus the profile they
// were issued under and the capture time.
type Archive struct {
	TakenAt    time.Time            `json:"taken_at"`
	Profile    types.CompanyProfile `json:"profile"`
	Clients    []types.Client       `json:"clients"`
	Quotations []types.Quotation    `json:"quotations"`
}

// Backup writes a zstd-compressed JSON archive of the current state.
func (s *Store) Backup(w io.Writer) error {
	s.mu.Lock()
	archive := Archive{
		TakenAt:    s.now(),
		Profile:    s.profile,
		Clients:    append([]types.Client(nil), s.clients...),
		Quotations: append([]types.Quotation(nil), s.quotations...),
	}
	s.mu.Unlock()

	payload, err := json.Marshal(archive)
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	if _, err := zw.Write(payload); err != nil {
		_ = zw.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	return zw.Close()
}

// Restore replaces the in-memory state with the archive's collections and
// persists the result. The company profile travels in the archive for
// reference but the store keeps its own.
func (s *Store) Restore(ctx context.Context, r io.Reader) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return err
	}
	defer zr.Close()
	payload, err := io.ReadAll(zr)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	var archive Archive
	if err := json.Unmarshal(payload, &archive); err != nil {
		return fmt.Errorf("decode archive: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = archive.Clients
	s.quotations = archive.Quotations
	s.persistLocked(ctx)
	return nil
}
