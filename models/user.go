package models

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type User struct {
	Record         `bson:",inline"`
	CustomerID     int64  `json:"CustomerID" bson:"CustomerID"`
	NameAndSurname string `json:"NameAndSurname" bson:"NameAndSurname"`
	Email          string `json:"Email" bson:"Email"`
	Password       string `json:"-" bson:"Password"`
	Gender         string `json:"Gender" bson:"Gender"`
	UserNumber     string `json:"UserNumber" bson:"UserNumber"`
}

var UserSchema = Schema{
	Entity:   "user",
	Fields:   []string{"NameAndSurname", "Email", "Password", "Gender", "UserNumber"},
	Required: []string{"Email", "Password"},
	Text:     []string{"UserNumber"},
	Normalize: func(m map[string]any) error {
		if email, ok := m["Email"].(string); ok {
			m["Email"] = strings.TrimSpace(email)
		}
		return nil
	},
}

type UserStore struct {
	*Collection[User]
}

func NewUserStore(coll *mongo.Collection) *UserStore {
	return &UserStore{Collection: NewCollection[User](coll)}
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.FindOne(ctx, bson.M{"Email": email})
}

func (s *UserStore) FindByCustomerID(ctx context.Context, customerID int64) (*User, error) {
	return s.FindOne(ctx, bson.M{"CustomerID": customerID})
}

// Register inserts u unless a user with the same email exists.
func (s *UserStore) Register(ctx context.Context, u *User) (primitive.ObjectID, error) {
	return s.InsertIfAbsent(ctx, bson.M{"Email": u.Email}, u)
}
