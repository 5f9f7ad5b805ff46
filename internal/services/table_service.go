package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"menuqr/internal/domain"
	applog "menuqr/internal/log"
	"menuqr/internal/repos"
	"menuqr/internal/storage"
	"menuqr/internal/validate"
)

// TableService manages physical tables and their QR deep-link artifacts.
// Creation is two-phase: the row is durable first, the QR URL is enriched in
// afterwards. A failed QR pipeline leaves the table in a "QR pending" state.
type TableService struct {
	Tables  *repos.TableRepo
	Files   storage.Uploader
	BaseURL string
	Timeout time.Duration
}

// MenuURL is what the printed QR encodes: the store's public menu with the
// table id as context. It depends on ids only, never on the table name.
func (s *TableService) MenuURL(store domain.Store, tableID string) string {
	return fmt.Sprintf("%s/store/home/%s/%s/%s", s.BaseURL, url.PathEscape(store.Name), store.ID, tableID)
}

func (s *TableService) generateQR(ctx context.Context, store domain.Store, tableID string) (string, error) {
	png, err := qrcode.Encode(s.MenuURL(store, tableID), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Files.Upload(ctx, "tables/qr", tableID+".png", png)
}

func (s *TableService) validate(name string, capacity int) (string, error) {
	ve := &ValidationError{}
	name, ok := validate.Text(name, 100)
	if !ok {
		ve.add("name", "table name is required")
	}
	if capacity < 1 || capacity > 500 {
		ve.add("capacity", "capacity must be a positive integer")
	}
	return name, ve.orNil()
}

// Create inserts the row, then generates and stores the QR. The QR payload
// needs the generated id, so the insert has to come first; a pipeline
// failure is degraded to an empty qr_code, not a lost table.
func (s *TableService) Create(ctx context.Context, store domain.Store, name string, capacity int) (domain.Table, error) {
	name, err := s.validate(name, capacity)
	if err != nil {
		return domain.Table{}, err
	}

	t := domain.Table{ID: uuid.NewString(), StoreID: store.ID, Name: name, Capacity: capacity}
	if err := s.Tables.Create(t); err != nil {
		return domain.Table{}, err
	}

	if qrURL, err := s.generateQR(ctx, store, t.ID); err != nil {
		applog.Upstream(nil, "table.qr.pending", err, map[string]any{"table_id": t.ID})
	} else if err := s.Tables.SetQRCode(store.ID, t.ID, qrURL); err != nil {
		return domain.Table{}, err
	}
	return s.Tables.Get(store.ID, t.ID)
}

// Update renames/resizes a table. The QR regenerates only when the name
// changed; the encoded URL carries ids only, but regeneration-on-rename is
// the observed contract and keeps the printed artifact fresh.
func (s *TableService) Update(ctx context.Context, store domain.Store, id, name string, capacity int) (domain.Table, error) {
	t, err := s.Tables.Get(store.ID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Table{}, ErrNotFound
	} else if err != nil {
		return domain.Table{}, err
	}

	name, err = s.validate(name, capacity)
	if err != nil {
		return domain.Table{}, err
	}

	nameChanged := name != t.Name
	t.Name, t.Capacity = name, capacity
	if err := s.Tables.Update(t); err != nil {
		return domain.Table{}, err
	}

	if nameChanged {
		if qrURL, err := s.generateQR(ctx, store, t.ID); err != nil {
			applog.Upstream(nil, "table.qr.pending", err, map[string]any{"table_id": t.ID})
		} else if err := s.Tables.SetQRCode(store.ID, t.ID, qrURL); err != nil {
			return domain.Table{}, err
		}
	}
	return s.Tables.Get(store.ID, id)
}

// RegenerateQR is the explicit retry for tables stuck in the pending state;
// unlike create/update it surfaces the pipeline failure to the caller.
func (s *TableService) RegenerateQR(ctx context.Context, store domain.Store, id string) (domain.Table, error) {
	t, err := s.Tables.Get(store.ID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Table{}, ErrNotFound
	} else if err != nil {
		return domain.Table{}, err
	}
	qrURL, err := s.generateQR(ctx, store, t.ID)
	if err != nil {
		return domain.Table{}, fmt.Errorf("qr pipeline: %w", err)
	}
	if err := s.Tables.SetQRCode(store.ID, t.ID, qrURL); err != nil {
		return domain.Table{}, err
	}
	return s.Tables.Get(store.ID, id)
}

func (s *TableService) Delete(store domain.Store, id string) error {
	if _, err := s.Tables.Get(store.ID, id); errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.Tables.Delete(store.ID, id)
}
