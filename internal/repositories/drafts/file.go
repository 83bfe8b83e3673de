package drafts

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/pkg/clock"
)

// DirName is the directory under the output directory holding file drafts.
const DirName = ".drafts"

type fileRepository struct {
	dir   string
	clock clock.Clock
}

// NewFileRepository creates a draft repository storing one JSON file per
// draft in dir. Expired drafts are removed when read.
func NewFileRepository(dir string, clk clock.Clock) Repository {
	if clk == nil {
		clk = clock.New()
	}
	return &fileRepository{
		dir:   dir,
		clock: clk,
	}
}

func (r *fileRepository) path(id string) (string, error) {
	if id == "" {
		return "", errors.InvalidArgument(errDraftIDEmpty)
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return "", errors.InvalidArgumentf("invalid draft ID %q", id)
	}
	return filepath.Join(r.dir, id+".json"), nil
}

func (r *fileRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateDraft(input.Draft); err != nil {
		return nil, err
	}
	if err := r.write(input.Draft); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "draft stored", "id", input.Draft.ID, "dir", r.dir)
	return &CreateOutput{Draft: input.Draft}, nil
}

func (r *fileRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	path, err := r.path(input.ID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("draft with ID %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get draft")
	}

	var draft agency.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal draft")
	}

	if _, ok := ttlFor(&draft, r.clock.Now()); !ok {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.WarnContext(ctx, "failed to remove expired draft", "id", input.ID, "error", err)
		}
		return nil, errors.NotFoundf("draft with ID %s not found", input.ID)
	}

	return &GetOutput{Draft: &draft}, nil
}

func (r *fileRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateDraft(input.Draft); err != nil {
		return nil, err
	}
	if _, err := r.Get(ctx, GetInput{ID: input.Draft.ID}); err != nil {
		return nil, err
	}
	if err := r.write(input.Draft); err != nil {
		return nil, err
	}
	return &UpdateOutput{Draft: input.Draft}, nil
}

func (r *fileRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	path, err := r.path(input.ID)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("draft with ID %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to delete draft")
	}
	return &DeleteOutput{}, nil
}

// write stores the draft through a temporary file so readers never see a
// partial document.
func (r *fileRepository) write(d *agency.Draft) error {
	path, err := r.path(d.ID)
	if err != nil {
		return err
	}
	if _, ok := ttlFor(d, r.clock.Now()); !ok {
		return errors.InvalidArgument(errDraftExpired)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal draft")
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create draft directory").WithMeta("dir", r.dir)
	}

	tmp, err := os.CreateTemp(r.dir, d.ID+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to store draft")
	}
	defer func() {
		_ = os.Remove(tmp.Name()) // nolint:errcheck // gone after a successful rename
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "failed to store draft")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to store draft")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "failed to store draft")
	}
	return nil
}
