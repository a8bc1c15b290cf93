package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the collection surface the generic handlers need.
// *models.Collection satisfies it.
type Store[T any] interface {
	Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Insert(ctx context.Context, doc *T) (primitive.ObjectID, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*T, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type record[T any] interface {
	*T
	Stamp(now time.Time)
	SetRecordID(id primitive.ObjectID)
}

// Resource serves list/get/create/update/delete for one entity.
type Resource[T any, P record[T]] struct {
	Store   Store[T]
	Schema  models.Schema
	Timeout time.Duration

	// Summary picks the fields echoed back on create. The whole document
	// is returned under "data" when nil.
	Summary func(doc *T) gin.H
	// AfterWrite runs after every successful create, update or delete.
	AfterWrite func(ctx context.Context)
}

func NewResource[T any, P record[T]](store Store[T], schema models.Schema, timeout time.Duration) *Resource[T, P] {
	return &Resource[T, P]{Store: store, Schema: schema, Timeout: timeout}
}

func (r *Resource[T, P]) tag() string {
	return "RESOURCE:" + r.Schema.Entity
}

// respond adds the entity name to id and lookup failures.
func (r *Resource[T, P]) respond(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidID):
		respondMessage(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID format", r.Schema.Entity))
	case errors.Is(err, models.ErrNotFound):
		respondMessage(c, http.StatusNotFound, entityTitle(r.Schema.Entity)+" not found")
	case errors.Is(err, models.ErrDuplicate):
		respondMessage(c, http.StatusConflict, entityTitle(r.Schema.Entity)+" already exists")
	default:
		respondError(c, r.tag(), err)
	}
}

func (r *Resource[T, P]) written(ctx context.Context) {
	if r.AfterWrite != nil {
		r.AfterWrite(ctx)
	}
}

func (r *Resource[T, P]) List(c *gin.Context) {
	filter, err := r.Schema.Filter(c.Request.URL.Query())
	if err != nil {
		r.respond(c, err)
		return
	}

	ctx, cancel := requestContext(c, r.Timeout)
	defer cancel()

	docs, err := r.Store.Find(ctx, filter)
	if err != nil {
		r.respond(c, err)
		return
	}
	if docs == nil {
		docs = []T{}
	}
	c.JSON(http.StatusOK, docs)
}

func (r *Resource[T, P]) Get(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		r.respond(c, err)
		return
	}

	ctx, cancel := requestContext(c, r.Timeout)
	defer cancel()

	doc, err := r.Store.FindByID(ctx, id)
	if err != nil {
		r.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (r *Resource[T, P]) Create(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	clean, err := r.Schema.Prepare(payload)
	if err != nil {
		r.respond(c, err)
		return
	}

	doc := new(T)
	if err := r.Schema.Decode(clean, doc); err != nil {
		r.respond(c, err)
		return
	}
	P(doc).Stamp(time.Now())

	ctx, cancel := requestContext(c, r.Timeout)
	defer cancel()

	id, err := r.Store.Insert(ctx, doc)
	if err != nil {
		r.respond(c, err)
		return
	}
	P(doc).SetRecordID(id)
	r.written(ctx)

	body := gin.H{}
	if r.Summary != nil {
		for k, v := range r.Summary(doc) {
			body[k] = v
		}
	} else {
		body["data"] = doc
	}
	body["message"] = entityTitle(r.Schema.Entity) + " created successfully"
	body["_id"] = id
	c.JSON(http.StatusCreated, body)
}

func (r *Resource[T, P]) Update(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		r.respond(c, err)
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	set, err := r.Schema.UpdateSet(payload)
	if err != nil {
		r.respond(c, err)
		return
	}

	ctx, cancel := requestContext(c, r.Timeout)
	defer cancel()

	doc, err := r.Store.UpdateByID(ctx, id, set)
	if err != nil {
		r.respond(c, err)
		return
	}
	r.written(ctx)

	c.JSON(http.StatusOK, gin.H{
		"message": entityTitle(r.Schema.Entity) + " updated successfully",
		"data":    doc,
	})
}

func (r *Resource[T, P]) Delete(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		r.respond(c, err)
		return
	}

	ctx, cancel := requestContext(c, r.Timeout)
	defer cancel()

	if err := r.Store.DeleteByID(ctx, id); err != nil {
		r.respond(c, err)
		return
	}
	r.written(ctx)

	respondMessage(c, http.StatusOK, entityTitle(r.Schema.Entity)+" deleted successfully")
}
