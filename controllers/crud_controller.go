package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"manthokha-backend/catalog"
	"manthokha-backend/utils"
)

// CrudController serves list/get/create/update/delete for one entity
// through the generic form, so every entity shares the same validation
// gate, notifications and refresh-after-write behaviour.
type CrudController[T any] struct {
	Schema     catalog.Schema[T]
	Repo       catalog.Repository[T]
	View       *catalog.View[T]
	Search     func(T) []string
	Refreshers []catalog.Refresher
	Notifier   catalog.Notifier
}

func (ctrl *CrudController[T]) newForm(rec *catalog.Recorder) *catalog.Form[T] {
	return catalog.NewForm(ctrl.Schema, ctrl.Repo, rec, ctrl.Refreshers...)
}

// List serves the entity's catalog view, optionally narrowed by ?q=.
// ?refresh=true re-fetches first; if that fails the previous list is served
// and flagged stale.
func (ctrl *CrudController[T]) List(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("refresh") == "true" {
		_ = ctrl.View.Refresh(ctx)
	} else if err := ctrl.View.Ensure(ctx); err != nil {
		respondError(c, &catalog.StoreError{Entity: ctrl.Schema.Entity, Op: "list", Err: err}, nil)
		return
	}

	items := ctrl.View.Items()
	if ctrl.Search != nil {
		items = catalog.FilterText(items, c.Query("q"), ctrl.Search)
	}
	utils.JSONSuccess(c, http.StatusOK, items, gin.H{"view": ctrl.View.Status()})
}

func (ctrl *CrudController[T]) Get(c *gin.Context) {
	rec, err := ctrl.Repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, &catalog.StoreError{Entity: ctrl.Schema.Entity, Op: "get", Err: err}, nil)
		return
	}
	respondOK(c, http.StatusOK, rec, nil)
}

func (ctrl *CrudController[T]) Create(c *gin.Context) {
	var body T
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid "+strings.ToLower(ctrl.Schema.Entity)+" payload: "+err.Error())
		return
	}
	// ids are always store-assigned
	if r, ok := any(&body).(interface{ SetID(string) }); ok {
		r.SetID("")
	}

	rec := catalog.NewRecorder(ctrl.Notifier)
	form := ctrl.newForm(rec)
	if err := form.Create(); err != nil {
		respondError(c, err, rec)
		return
	}
	if err := form.Replace(body); err != nil {
		respondError(c, err, rec)
		return
	}

	saved, err := form.Submit(c.Request.Context())
	if err != nil {
		respondError(c, err, rec)
		return
	}
	respondOK(c, http.StatusCreated, saved, rec)
}

// Update replaces every mutable field of :id with the request body.
func (ctrl *CrudController[T]) Update(c *gin.Context) {
	id := c.Param("id")
	existing, err := ctrl.Repo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, &catalog.StoreError{Entity: ctrl.Schema.Entity, Op: "get", Err: err}, nil)
		return
	}

	body := ctrl.Schema.Clone(*existing)
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid "+strings.ToLower(ctrl.Schema.Entity)+" payload: "+err.Error())
		return
	}

	rec := catalog.NewRecorder(ctrl.Notifier)
	form := ctrl.newForm(rec)
	if err := form.Edit(id, *existing); err != nil {
		respondError(c, err, rec)
		return
	}
	if err := form.Replace(body); err != nil {
		respondError(c, err, rec)
		return
	}

	saved, err := form.Submit(c.Request.Context())
	if err != nil {
		respondError(c, err, rec)
		return
	}
	respondOK(c, http.StatusOK, saved, rec)
}

// Delete needs ?confirm=true; without it the confirmation prompt comes back
// and nothing is deleted.
func (ctrl *CrudController[T]) Delete(c *gin.Context) {
	id := c.Param("id")
	rec := catalog.NewRecorder(ctrl.Notifier)
	form := ctrl.newForm(rec)

	err := form.Delete(c.Request.Context(), id, func(string) bool {
		return c.Query("confirm") == "true"
	})
	if errors.Is(err, catalog.ErrNotConfirmed) {
		utils.JSONError(c, http.StatusConflict, "error.confirmationRequired", catalog.ConfirmPrompt(ctrl.Schema.Entity), nil)
		return
	}
	if err != nil {
		respondError(c, err, rec)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id}, rec)
}
