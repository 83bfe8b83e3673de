package drafts

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/agency-sheet/internal/redis"
)

// KeyPrefix namespaces draft keys in redis.
const KeyPrefix = "sheetdraft:"

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a Redis-backed draft repository. Keys expire
// with the draft.
func NewRedisRepository(client redisclient.Client, clk clock.Clock) Repository {
	if clk == nil {
		clk = clock.New()
	}
	return &redisRepository{
		client: client,
		clock:  clk,
	}
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateDraft(input.Draft); err != nil {
		return nil, err
	}

	ttl, ok := ttlFor(input.Draft, r.clock.Now())
	if !ok {
		return nil, errors.InvalidArgument(errDraftExpired)
	}

	data, err := json.Marshal(input.Draft)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal draft")
	}

	if err := r.client.Set(ctx, KeyPrefix+input.Draft.ID, data, ttl).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to create draft")
	}

	return &CreateOutput{Draft: input.Draft}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errDraftIDEmpty)
	}

	result, err := r.client.Get(ctx, KeyPrefix+input.ID).Bytes()
	if err != nil {
		if stderrors.Is(err, redisclient.Nil) {
			return nil, errors.NotFoundf("draft with ID %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get draft")
	}

	var draft agency.Draft
	if err := json.Unmarshal(result, &draft); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal draft")
	}

	return &GetOutput{Draft: &draft}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateDraft(input.Draft); err != nil {
		return nil, err
	}

	key := KeyPrefix + input.Draft.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("draft with ID %s not found", input.Draft.ID)
	}

	ttl, ok := ttlFor(input.Draft, r.clock.Now())
	if !ok {
		return nil, errors.InvalidArgument(errDraftExpired)
	}

	data, err := json.Marshal(input.Draft)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal draft")
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to update draft")
	}

	return &UpdateOutput{Draft: input.Draft}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errDraftIDEmpty)
	}

	deleted, err := r.client.Del(ctx, KeyPrefix+input.ID).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete draft")
	}
	if deleted == 0 {
		return nil, errors.NotFoundf("draft with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

func validateDraft(d *agency.Draft) error {
	if d == nil {
		return errors.InvalidArgument(errDraftNil)
	}
	if d.ID == "" {
		return errors.InvalidArgument(errDraftIDEmpty)
	}
	return nil
}
