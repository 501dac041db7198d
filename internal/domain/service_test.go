package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/entity"
	"tourbook/internal/core/id"
	"tourbook/internal/core/tx"
)

type testItem struct {
	entity.BaseEntity
	Name string
}

func (i *testItem) Normalize() { i.Name = strings.TrimSpace(i.Name) }

func (i *testItem) Validate(ctx context.Context) error {
	return entity.RequireLength("name", i.Name, 3, 20)
}

type fakeRepo struct {
	rows    map[id.ID]*testItem
	deleted map[id.ID]bool
	nextID  id.ID
	locked  []id.ID
	shared  []id.ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[id.ID]*testItem{}, deleted: map[id.ID]bool{}}
}

func (r *fakeRepo) Create(ctx context.Context, e *testItem) (id.ID, error) {
	r.nextID++
	cp := *e
	cp.ID = r.nextID
	r.rows[r.nextID] = &cp
	return r.nextID, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, v id.ID) (*testItem, error) {
	row, ok := r.rows[v]
	if !ok || r.deleted[v] {
		return nil, apperror.NewNotFound("row", v)
	}
	cp := *row
	return &cp, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, v id.ID) (*testItem, error) {
	r.locked = append(r.locked, v)
	return r.GetByID(ctx, v)
}

func (r *fakeRepo) GetForShare(ctx context.Context, v id.ID) (*testItem, error) {
	r.shared = append(r.shared, v)
	return r.GetByID(ctx, v)
}

func (r *fakeRepo) Update(ctx context.Context, e *testItem) error {
	if _, ok := r.rows[e.ID]; !ok || r.deleted[e.ID] {
		return apperror.NewNotFound("row", e.ID)
	}
	cp := *e
	r.rows[e.ID] = &cp
	return nil
}

func (r *fakeRepo) SoftDelete(ctx context.Context, v id.ID) error {
	if _, ok := r.rows[v]; !ok || r.deleted[v] {
		return apperror.NewNotFound("row", v)
	}
	r.deleted[v] = true
	return nil
}

func (r *fakeRepo) List(ctx context.Context, f ListFilter) (ListResult[*testItem], error) {
	var items []*testItem
	for v, row := range r.rows {
		if !r.deleted[v] {
			items = append(items, row)
		}
	}
	return ListResult[*testItem]{Items: items, TotalCount: int64(len(items)), Limit: f.Limit}, nil
}

func (r *fakeRepo) Exists(ctx context.Context, v id.ID) (bool, error) {
	_, ok := r.rows[v]
	return ok && !r.deleted[v], nil
}

// recordingTx counts transactions and reports whether fn failed.
type recordingTx struct {
	runs   int
	failed int
}

func (m *recordingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.runs++
	err := fn(ctx)
	if err != nil {
		m.failed++
	}
	return err
}

var _ tx.Manager = (*recordingTx)(nil)

func newTestService() (*CatalogService[*testItem], *fakeRepo, *recordingTx) {
	repo := newFakeRepo()
	txm := &recordingTx{}
	svc := NewCatalogService(CatalogServiceConfig[*testItem]{Repo: repo, TxManager: txm, EntityName: "item"})
	return svc, repo, txm
}

func TestCatalogService_CreateNormalizesValidatesAndAssignsID(t *testing.T) {
	svc, repo, txm := newTestService()
	ctx := context.Background()

	item := &testItem{Name: "  lamp  "}
	require.NoError(t, svc.Create(ctx, item))

	assert.EqualValues(t, 1, item.ID)
	assert.Equal(t, "lamp", repo.rows[1].Name)
	assert.Equal(t, 1, txm.runs)
}

func TestCatalogService_CreateRejectsInvalidBeforeTransaction(t *testing.T) {
	svc, repo, txm := newTestService()

	err := svc.Create(context.Background(), &testItem{Name: "ab"})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "name", appErr.Field())
	assert.Empty(t, repo.rows)
	assert.Zero(t, txm.runs)
}

func TestCatalogService_BeforeHookAbortsWrite(t *testing.T) {
	svc, repo, txm := newTestService()
	refused := apperror.NewConflict("refused")
	svc.Hooks().OnBeforeCreate(func(ctx context.Context, e *testItem) error { return refused })

	err := svc.Create(context.Background(), &testItem{Name: "lamp"})

	assert.ErrorIs(t, err, refused)
	assert.Empty(t, repo.rows)
	assert.Equal(t, 1, txm.failed)
}

func TestCatalogService_AfterHookErrorsAreSwallowed(t *testing.T) {
	svc, _, _ := newTestService()
	var seen []id.ID
	svc.Hooks().OnAfterCreate(func(ctx context.Context, e *testItem) error {
		seen = append(seen, e.ID)
		return errors.New("sink down")
	})

	require.NoError(t, svc.Create(context.Background(), &testItem{Name: "lamp"}))
	assert.Equal(t, []id.ID{1}, seen)
}

func TestCatalogService_GetByIDMapsNotFoundToEntity(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetByID(context.Background(), 42)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	assert.Equal(t, "item not found", appErr.Message)
}

func TestCatalogService_UpdateMissingIsNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	item := &testItem{Name: "lamp"}
	item.ID = 9
	err := svc.Update(context.Background(), item)

	assert.True(t, apperror.IsNotFound(err))
}

func TestCatalogService_DeleteLocksRunsHooksAndSoftDeletes(t *testing.T) {
	svc, repo, txm := newTestService()
	ctx := context.Background()

	item := &testItem{Name: "lamp"}
	require.NoError(t, svc.Create(ctx, item))

	var order []string
	svc.Hooks().OnBeforeDelete(func(ctx context.Context, e *testItem) error {
		order = append(order, "before")
		assert.False(t, repo.deleted[e.ID])
		return nil
	})
	svc.Hooks().OnAfterDelete(func(ctx context.Context, e *testItem) error {
		order = append(order, "after:"+e.Name)
		return nil
	})

	require.NoError(t, svc.Delete(ctx, item.ID))

	assert.Equal(t, []string{"before", "after:lamp"}, order)
	assert.Equal(t, []id.ID{item.ID}, repo.locked)
	assert.True(t, repo.deleted[item.ID])
	assert.Equal(t, 2, txm.runs)

	_, err := svc.GetByID(ctx, item.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, item.ID)))
}

func TestCatalogService_DeleteRefusedByHookKeepsRow(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	item := &testItem{Name: "lamp"}
	require.NoError(t, svc.Create(ctx, item))
	svc.Hooks().OnBeforeDelete(func(ctx context.Context, e *testItem) error {
		return apperror.NewReferential("item", e.ID, "children")
	})

	err := svc.Delete(ctx, item.ID)

	assert.True(t, apperror.IsReferential(err))
	assert.False(t, repo.deleted[item.ID])
}

func TestCatalogService_NilTxManagerRunsDirectly(t *testing.T) {
	svc := NewCatalogService(CatalogServiceConfig[*testItem]{Repo: newFakeRepo(), EntityName: "item"})

	require.NoError(t, svc.Create(context.Background(), &testItem{Name: "lamp"}))
	ok, err := svc.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHookRegistry_StopsAtFirstError(t *testing.T) {
	reg := NewHookRegistry[*testItem]()
	var calls int
	reg.OnBeforeUpdate(func(context.Context, *testItem) error { calls++; return errors.New("stop") })
	reg.OnBeforeUpdate(func(context.Context, *testItem) error { calls++; return nil })

	err := reg.Run(context.Background(), BeforeUpdate, &testItem{})

	assert.EqualError(t, err, "stop")
	assert.Equal(t, 1, calls)
}

func TestCatalogService_GetForShare(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	item := &testItem{Name: "chair"}
	require.NoError(t, svc.Create(ctx, item))

	got, err := svc.GetForShare(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "chair", got.Name)

	require.NoError(t, svc.Delete(ctx, item.ID))
	_, err = svc.GetForShare(ctx, item.ID)
	require.True(t, apperror.IsNotFound(err))
	assert.Equal(t, "item not found", err.(*apperror.AppError).Message)

	assert.Equal(t, []id.ID{item.ID, item.ID}, repo.shared)
}
