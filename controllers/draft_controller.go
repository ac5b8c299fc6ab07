package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"manthokha-backend/catalog"
	"manthokha-backend/drafts"
)

// DraftController keeps a create/edit form open across requests. The
// working copy lives in the draft store and each draft is locked while a
// request works on it, so a second submit of the same draft gets 409.
type DraftController[T any] struct {
	Entity     string
	Schema     catalog.Schema[T]
	Repo       catalog.Repository[T]
	Drafts     drafts.Store
	Refreshers []catalog.Refresher
	Notifier   catalog.Notifier
}

type draftResponse[T any] struct {
	ID      string        `json:"id"`
	Entity  string        `json:"entity"`
	State   catalog.State `json:"state"`
	Working T             `json:"working"`
}

type openDraftRequest struct {
	// ID selects the record to edit; empty opens a create form.
	ID string `json:"id"`
}

type setFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

type addItemRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (ctrl *DraftController[T]) newForm(n catalog.Notifier) *catalog.Form[T] {
	return catalog.NewForm(ctrl.Schema, ctrl.Repo, n, ctrl.Refreshers...)
}

// Open starts a draft in create mode, or in edit mode on body.id.
func (ctrl *DraftController[T]) Open(c *gin.Context) {
	var req openDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid draft payload: "+err.Error())
			return
		}
	}

	ctx := c.Request.Context()
	form := ctrl.newForm(nil)
	if req.ID == "" {
		_ = form.Create()
	} else {
		existing, err := ctrl.Repo.Get(ctx, req.ID)
		if err != nil {
			respondError(c, &catalog.StoreError{Entity: ctrl.Schema.Entity, Op: "get", Err: err}, nil)
			return
		}
		_ = form.Edit(req.ID, *existing)
	}

	d := &drafts.Draft{ID: uuid.NewString(), Entity: ctrl.Entity}
	if err := ctrl.save(ctx, d, form); err != nil {
		respondError(c, err, nil)
		return
	}
	respondOK(c, http.StatusCreated, ctrl.view(d.ID, form), nil)
}

func (ctrl *DraftController[T]) Show(c *gin.Context) {
	ctx := c.Request.Context()
	d, form, err := ctrl.load(ctx, c.Param("draftId"), nil)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	respondOK(c, http.StatusOK, ctrl.view(d.ID, form), nil)
}

func (ctrl *DraftController[T]) SetFields(c *gin.Context) {
	var req setFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid fields payload: "+err.Error())
		return
	}
	ctrl.mutate(c, func(_ context.Context, form *catalog.Form[T]) error {
		for name, value := range req.Fields {
			if err := form.SetField(name, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (ctrl *DraftController[T]) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid item payload: "+err.Error())
		return
	}
	ctrl.mutate(c, func(_ context.Context, form *catalog.Form[T]) error {
		_, err := form.AddListItem(req.Field, req.Value)
		return err
	})
}

func (ctrl *DraftController[T]) RemoveItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "index must be a number")
		return
	}
	ctrl.mutate(c, func(_ context.Context, form *catalog.Form[T]) error {
		_, err := form.RemoveListItem(c.Param("field"), index)
		return err
	})
}

func (ctrl *DraftController[T]) Validate(c *gin.Context) {
	ctx := c.Request.Context()
	d, form, err := ctrl.load(ctx, c.Param("draftId"), nil)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	if err := form.Validate(); err != nil {
		respondError(c, err, nil)
		return
	}
	respondOK(c, http.StatusOK, ctrl.view(d.ID, form), nil)
}

// Submit saves the draft's working copy. On success the draft is gone; on a
// store failure it is kept in the error state so the user can retry.
func (ctrl *DraftController[T]) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("draftId")

	unlock, err := ctrl.Drafts.Lock(ctx, id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	defer unlock()

	rec := catalog.NewRecorder(ctrl.Notifier)
	d, form, err := ctrl.load(ctx, id, rec)
	if err != nil {
		respondError(c, err, rec)
		return
	}

	saved, err := form.Submit(ctx)
	if err != nil {
		if serr := ctrl.save(ctx, d, form); serr != nil {
			respondError(c, serr, rec)
			return
		}
		respondError(c, err, rec)
		return
	}

	if err := ctrl.Drafts.Delete(ctx, id); err != nil {
		_ = c.Error(err)
	}
	respondOK(c, http.StatusOK, saved, rec)
}

// Cancel discards the draft.
func (ctrl *DraftController[T]) Cancel(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("draftId")

	unlock, err := ctrl.Drafts.Lock(ctx, id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	defer unlock()

	if _, _, err := ctrl.load(ctx, id, nil); err != nil {
		respondError(c, err, nil)
		return
	}
	if err := ctrl.Drafts.Delete(ctx, id); err != nil {
		respondError(c, err, nil)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id, "state": catalog.State{Phase: catalog.Browsing}}, nil)
}

func (ctrl *DraftController[T]) mutate(c *gin.Context, fn func(ctx context.Context, form *catalog.Form[T]) error) {
	ctx := c.Request.Context()
	id := c.Param("draftId")

	unlock, err := ctrl.Drafts.Lock(ctx, id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	defer unlock()

	d, form, err := ctrl.load(ctx, id, nil)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	if err := fn(ctx, form); err != nil {
		respondError(c, err, nil)
		return
	}
	if err := ctrl.save(ctx, d, form); err != nil {
		respondError(c, err, nil)
		return
	}
	respondOK(c, http.StatusOK, ctrl.view(d.ID, form), nil)
}

func (ctrl *DraftController[T]) load(ctx context.Context, id string, n catalog.Notifier) (*drafts.Draft, *catalog.Form[T], error) {
	d, err := ctrl.Drafts.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if d.Entity != ctrl.Entity {
		return nil, nil, drafts.ErrNotFound
	}

	var snap catalog.Snapshot[T]
	if err := json.Unmarshal(d.Form, &snap); err != nil {
		return nil, nil, fmt.Errorf("decode draft %s: %w", id, err)
	}

	form := ctrl.newForm(n)
	if err := form.Restore(snap); err != nil {
		return nil, nil, err
	}
	return d, form, nil
}

func (ctrl *DraftController[T]) save(ctx context.Context, d *drafts.Draft, form *catalog.Form[T]) error {
	raw, err := json.Marshal(form.Snapshot())
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", d.ID, err)
	}
	d.Form = raw
	return ctrl.Drafts.Save(ctx, d)
}

func (ctrl *DraftController[T]) view(id string, form *catalog.Form[T]) draftResponse[T] {
	snap := form.Snapshot()
	return draftResponse[T]{ID: id, Entity: ctrl.Entity, State: snap.State, Working: snap.Working}
}
