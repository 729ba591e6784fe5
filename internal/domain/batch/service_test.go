package batch

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bleuims/internal/core/apperror"
	"bleuims/internal/domain/material"
)

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeBatchRepo is an in-memory batch.Repository.
type fakeBatchRepo struct {
	batches map[int64]*Batch
	nextID  int64
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[int64]*Batch), nextID: 1}
}

func (f *fakeBatchRepo) add(b Batch) *Batch {
	b.ID = f.nextID
	f.nextID++
	f.batches[b.ID] = &b
	return f.batches[b.ID]
}

func (f *fakeBatchRepo) Insert(ctx context.Context, b *Batch) error {
	b.ID = f.nextID
	f.nextID++
	b.RestockedAt = time.Now()
	cp := *b
	f.batches[b.ID] = &cp
	return nil
}

func (f *fakeBatchRepo) Get(ctx context.Context, id int64) (*Batch, error) {
	b, ok := f.batches[id]
	if !ok {
		return nil, apperror.NewNotFound("batch", id)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBatchRepo) ListAll(ctx context.Context) ([]Batch, error) {
	out := make([]Batch, 0, len(f.batches))
	for _, b := range f.batches {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBatchRepo) ListByMaterial(ctx context.Context, materialID int64) ([]Batch, error) {
	var out []Batch
	for _, b := range f.batches {
		if b.MaterialID == materialID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBatchRepo) ApplyUpdate(ctx context.Context, id int64, u Update) error {
	b, ok := f.batches[id]
	if !ok {
		return apperror.NewNotFound("batch", id)
	}
	if u.Quantity != nil {
		b.Quantity = *u.Quantity
	}
	if u.Unit != nil {
		b.Unit = *u.Unit
	}
	if u.BatchDate != nil {
		b.BatchDate = *u.BatchDate
	}
	if u.LoggedBy != nil {
		b.LoggedBy = *u.LoggedBy
	}
	if u.Notes != nil {
		b.Notes = u.Notes
	}
	return nil
}

func (f *fakeBatchRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	b, ok := f.batches[id]
	if !ok {
		return apperror.NewNotFound("batch", id)
	}
	b.Status = status
	return nil
}

// fakeMaterials is an in-memory batch.MaterialStore.
type fakeMaterials struct {
	materials map[int64]*material.Material
}

func newFakeMaterials(seed ...material.Material) *fakeMaterials {
	f := &fakeMaterials{materials: make(map[int64]*material.Material)}
	for i := range seed {
		cp := seed[i]
		f.materials[cp.ID] = &cp
	}
	return f
}

func (f *fakeMaterials) Get(ctx context.Context, id int64) (*material.Material, error) {
	m, ok := f.materials[id]
	if !ok {
		return nil, apperror.NewNotFound("material", id)
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMaterials) AdjustQuantity(ctx context.Context, id int64, delta decimal.Decimal) error {
	m, ok := f.materials[id]
	if !ok {
		return apperror.NewNotFound("material", id)
	}
	m.Quantity = m.Quantity.Add(delta)
	return nil
}

func (f *fakeMaterials) UpdateStatus(ctx context.Context, id int64, status material.Status) error {
	m, ok := f.materials[id]
	if !ok {
		return apperror.NewNotFound("material", id)
	}
	m.Status = status
	return nil
}

func seedMaterial(id int64, qty int64) material.Material {
	q := decimal.NewFromInt(qty)
	return material.Material{
		ID:          id,
		Name:        "Milk",
		Quantity:    q,
		Measurement: "pcs",
		Status:      material.ResolveStatus(q, "pcs"),
	}
}

func TestCreateAddsQuantityToMaterial(t *testing.T) {
	repo := newFakeBatchRepo()
	materials := newFakeMaterials(seedMaterial(1, 8))
	svc := NewService(repo, materials, stubTxManager{})

	b, err := svc.Create(context.Background(), &Batch{
		MaterialID: 1,
		Quantity:   decimal.NewFromInt(5),
		Unit:       "pcs",
		BatchDate:  time.Now(),
		LoggedBy:   "alice",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusAvailable, b.Status)
	assert.Equal(t, "Milk", b.MaterialName)
	assert.False(t, b.RestockedAt.IsZero())

	m, _ := materials.Get(context.Background(), 1)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(13)), "got %s", m.Quantity)
	assert.Equal(t, material.StatusAvailable, m.Status, "crossing the threshold must refresh the material status")
}

func TestCreateZeroQuantityBatchIsUsed(t *testing.T) {
	repo := newFakeBatchRepo()
	materials := newFakeMaterials(seedMaterial(1, 8))
	svc := NewService(repo, materials, stubTxManager{})

	b, err := svc.Create(context.Background(), &Batch{
		MaterialID: 1,
		Quantity:   decimal.Zero,
		Unit:       "pcs",
		BatchDate:  time.Now(),
		LoggedBy:   "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusUsed, b.Status)

	m, _ := materials.Get(context.Background(), 1)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(8)))
}

func TestCreateUnknownMaterial(t *testing.T) {
	svc := NewService(newFakeBatchRepo(), newFakeMaterials(), stubTxManager{})

	_, err := svc.Create(context.Background(), &Batch{
		MaterialID: 42,
		Quantity:   decimal.NewFromInt(5),
		Unit:       "pcs",
		BatchDate:  time.Now(),
		LoggedBy:   "alice",
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateEmptyRejected(t *testing.T) {
	svc := NewService(newFakeBatchRepo(), newFakeMaterials(), stubTxManager{})

	_, err := svc.Update(context.Background(), 1, Update{})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdateQuantityPropagatesDelta(t *testing.T) {
	repo := newFakeBatchRepo()
	seeded := repo.add(Batch{
		MaterialID: 1,
		Quantity:   decimal.NewFromInt(5),
		Unit:       "pcs",
		Status:     StatusAvailable,
	})
	materials := newFakeMaterials(seedMaterial(1, 12))
	svc := NewService(repo, materials, stubTxManager{})

	zero := decimal.Zero
	updated, err := svc.Update(context.Background(), seeded.ID, Update{Quantity: &zero})
	require.NoError(t, err)

	assert.Equal(t, StatusUsed, updated.Status, "draining a batch flips it to Used")

	m, _ := materials.Get(context.Background(), 1)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(7)), "12 - 5 = 7, got %s", m.Quantity)
	assert.Equal(t, material.StatusLowStock, m.Status)
}

func TestUpdateNonQuantityFieldLeavesMaterialAlone(t *testing.T) {
	repo := newFakeBatchRepo()
	seeded := repo.add(Batch{
		MaterialID: 1,
		Quantity:   decimal.NewFromInt(5),
		Unit:       "pcs",
		Status:     StatusAvailable,
	})
	materials := newFakeMaterials(seedMaterial(1, 12))
	svc := NewService(repo, materials, stubTxManager{})

	note := "delivery was late"
	updated, err := svc.Update(context.Background(), seeded.ID, Update{Notes: &note})
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, note, *updated.Notes)

	m, _ := materials.Get(context.Background(), 1)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(12)))
}

func TestUpdateMissingBatch(t *testing.T) {
	svc := NewService(newFakeBatchRepo(), newFakeMaterials(), stubTxManager{})

	qty := decimal.NewFromInt(3)
	_, err := svc.Update(context.Background(), 99, Update{Quantity: &qty})
	assert.True(t, apperror.IsNotFound(err))
}

func TestListRepairsStaleStatuses(t *testing.T) {
	repo := newFakeBatchRepo()
	stale := repo.add(Batch{
		MaterialID: 1,
		Quantity:   decimal.Zero,
		Unit:       "pcs",
		Status:     StatusAvailable, // disagrees with quantity
	})
	ok := repo.add(Batch{
		MaterialID: 1,
		Quantity:   decimal.NewFromInt(3),
		Unit:       "pcs",
		Status:     StatusAvailable,
	})
	svc := NewService(repo, newFakeMaterials(seedMaterial(1, 3)), stubTxManager{})

	rows, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, b := range rows {
		switch b.ID {
		case stale.ID:
			assert.Equal(t, StatusUsed, b.Status)
		case ok.ID:
			assert.Equal(t, StatusAvailable, b.Status)
		}
	}

	// Repair must be persisted, not just reflected in the response.
	stored, err := repo.Get(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusUsed, stored.Status)
}

func TestListByMaterialFilters(t *testing.T) {
	repo := newFakeBatchRepo()
	repo.add(Batch{MaterialID: 1, Quantity: decimal.NewFromInt(3), Status: StatusAvailable})
	repo.add(Batch{MaterialID: 2, Quantity: decimal.NewFromInt(4), Status: StatusAvailable})
	svc := NewService(repo, newFakeMaterials(seedMaterial(1, 3), seedMaterial(2, 4)), stubTxManager{})

	rows, err := svc.ListByMaterial(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].MaterialID)
}
