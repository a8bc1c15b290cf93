package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/BritneyNunes/NunesAutoBackEnd/services"
	"github.com/BritneyNunes/NunesAutoBackEnd/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// memStore keeps documents as BSON so tags behave as they do in MongoDB.
type memStore[T any] struct {
	mu    sync.Mutex
	docs  map[primitive.ObjectID]bson.M
	order []primitive.ObjectID
	err   error // returned by every call when set
}

func newMemStore[T any]() *memStore[T] {
	return &memStore[T]{docs: map[primitive.ObjectID]bson.M{}}
}

func toM(v any) bson.M {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	return m
}

func fromM[T any](m bson.M) *T {
	raw, err := bson.Marshal(m)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := bson.Unmarshal(raw, out); err != nil {
		panic(err)
	}
	return out
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if fmt.Sprint(doc[k]) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func (s *memStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *memStore[T]) Find(_ context.Context, filter bson.M, _ ...*options.FindOptions) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []T{}
	for _, id := range s.order {
		if doc, ok := s.docs[id]; ok && matches(doc, filter) {
			out = append(out, *fromM[T](doc))
		}
	}
	return out, nil
}

func (s *memStore[T]) FindByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	doc, ok := s.docs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return fromM[T](doc), nil
}

func (s *memStore[T]) Insert(_ context.Context, doc *T) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return primitive.NilObjectID, s.err
	}
	m := toM(doc)
	id := primitive.NewObjectID()
	m["_id"] = id
	s.docs[id] = m
	s.order = append(s.order, id)
	return id, nil
}

func (s *memStore[T]) UpdateByID(_ context.Context, id primitive.ObjectID, fields bson.M) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	doc, ok := s.docs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	doc["updatedAt"] = time.Now()
	return fromM[T](doc), nil
}

func (s *memStore[T]) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.docs[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *memStore[T]) deleteWhere(filter bson.M, limit int) int64 {
	var n int64
	for _, id := range s.order {
		doc, ok := s.docs[id]
		if !ok || !matches(doc, filter) {
			continue
		}
		delete(s.docs, id)
		n++
		if limit > 0 && int(n) == limit {
			break
		}
	}
	return n
}

type fakeUsers struct {
	*memStore[models.User]
}

func newFakeUsers() fakeUsers {
	return fakeUsers{newMemStore[models.User]()}
}

func (f fakeUsers) Register(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	if _, err := f.FindByEmail(ctx, u.Email); err == nil {
		return primitive.NilObjectID, models.ErrDuplicate
	}
	return f.Insert(ctx, u)
}

func (f fakeUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	users, err := f.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, models.ErrNotFound
	}
	return &users[0], nil
}

func (f fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.findOne(ctx, bson.M{"Email": email})
}

func (f fakeUsers) FindByCustomerID(ctx context.Context, customerID int64) (*models.User, error) {
	return f.findOne(ctx, bson.M{"CustomerID": customerID})
}

type fakeCarts struct {
	*memStore[models.CartItem]
}

func newFakeCarts() fakeCarts {
	return fakeCarts{newMemStore[models.CartItem]()}
}

func (f fakeCarts) ForCustomer(ctx context.Context, customerID int64) ([]models.CartItem, error) {
	return f.Find(ctx, bson.M{"CustomerID": customerID})
}

func (f fakeCarts) Add(ctx context.Context, item *models.CartItem) (primitive.ObjectID, error) {
	existing, err := f.Find(ctx, bson.M{"CustomerID": item.CustomerID, "itemId": item.ItemID})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if len(existing) > 0 {
		return primitive.NilObjectID, models.ErrDuplicate
	}
	return f.Insert(ctx, item)
}

func (f fakeCarts) Remove(_ context.Context, customerID int64, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteWhere(bson.M{"CustomerID": customerID, "itemId": ref}, 1) > 0 {
		return nil
	}
	if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
		if f.deleteWhere(bson.M{"CustomerID": customerID, "_id": oid}, 1) > 0 {
			return nil
		}
	}
	return models.ErrNotFound
}

func (f fakeCarts) Clear(_ context.Context, customerID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.deleteWhere(bson.M{"CustomerID": customerID}, 0), nil
}

type fakeOrders struct {
	*memStore[models.Order]
}

func newFakeOrders() fakeOrders {
	return fakeOrders{newMemStore[models.Order]()}
}

func (f fakeOrders) ForCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	return f.Find(ctx, bson.M{"CustomerID": customerID})
}

type fakeCatalog struct {
	brands      []models.Brand
	parts       []models.Part
	err         error
	keyword     string
	filter      bson.M
	invalidated int
}

func (f *fakeCatalog) Brands(context.Context) ([]models.Brand, error) {
	return f.brands, f.err
}

func (f *fakeCatalog) Parts(_ context.Context, keyword string, filter bson.M) ([]models.Part, error) {
	f.keyword, f.filter = keyword, filter
	return f.parts, f.err
}

func (f *fakeCatalog) Invalidate(context.Context) {
	f.invalidated++
}

type fakeMailer struct {
	result utils.SendResult
	sent   []string
}

func (f *fakeMailer) Send(_ context.Context, to, subject, _ string) utils.SendResult {
	f.sent = append(f.sent, to+"|"+subject)
	return f.result
}

type fakeGateway struct {
	result *services.ChargeResult
	err    error
	amount float64
	token  string
}

func (f *fakeGateway) Charge(_ context.Context, amount float64, cardToken string) (*services.ChargeResult, error) {
	f.amount, f.token = amount, cardToken
	return f.result, f.err
}

type fakeUploader struct {
	url         string
	err         error
	contentType string
	body        []byte
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, contentType, folder string) (string, error) {
	f.contentType = contentType
	f.body, _ = io.ReadAll(r)
	if f.err != nil {
		return "", f.err
	}
	return f.url + "/" + folder, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newJSONRequest(method, path, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	return serve(r, newJSONRequest(method, path, body))
}

func decodeJSON(body []byte) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(body, &out)
	return out
}
