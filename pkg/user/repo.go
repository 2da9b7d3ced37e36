package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forum/pkg/common"
	"forum/pkg/mongodb"
)

type UserRepo struct {
	users mongodb.ICollection
	now   func() time.Time
}

func NewUserRepo(usersCol *mongo.Collection) *UserRepo {
	return &UserRepo{
		users: mongodb.NewCollection(usersCol),
		now:   time.Now,
	}
}

func (r *UserRepo) Add(ctx context.Context, u *User) (primitive.ObjectID, error) {
	if u.Id.IsZero() {
		u.Id = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	if _, err := r.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("user/repo: failed inserting user: %w", ErrDuplicate)
		}
		return primitive.NilObjectID, fmt.Errorf("user/repo: failed inserting user: %w", err)
	}
	return u.Id, nil
}

func (r *UserRepo) GetById(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*User, error) {
	u := new(User)
	err := r.users.FindOne(ctx, filter).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user/repo: failed finding user: %w", err)
	}
	return u, nil
}

// Taken reports whether another user (not except) already has the username
// or the email. Empty values are not checked.
func (r *UserRepo) Taken(ctx context.Context, username, email string, except primitive.ObjectID) (bool, error) {
	or := bson.A{}
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return false, nil
	}

	filter := bson.M{"$or": or}
	if !except.IsZero() {
		filter["_id"] = bson.M{"$ne": except}
	}

	n, err := r.users.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("user/repo: failed counting users: %w", err)
	}
	return n > 0, nil
}

// GetAll returns every user ordered by username.
func (r *UserRepo) GetAll(ctx context.Context) ([]*User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("user/repo: failed finding users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("user/repo: failed getting users from cursor: %w", err)
	}
	return users, nil
}

// GetSummaries loads the author summaries for ids. Unknown ids are absent
// from the result.
func (r *UserRepo) GetSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*Summary, error) {
	res := make(map[primitive.ObjectID]*Summary, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	opts := options.Find().SetProjection(bson.M{"username": 1, "avatar": 1})
	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("user/repo: failed finding authors: %w", err)
	}
	defer cursor.Close(ctx)

	summaries := []*Summary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("user/repo: failed getting authors from cursor: %w", err)
	}
	for _, s := range summaries {
		s.Username = common.Capitalize(s.Username)
		res[s.Id] = s
	}
	return res, nil
}

// Update persists the editable profile fields.
func (r *UserRepo) Update(ctx context.Context, u *User) error {
	u.UpdatedAt = r.now().UTC()
	update := bson.M{"$set": bson.M{
		"username":  u.Username,
		"email":     u.Email,
		"bio":       u.Bio,
		"avatar":    u.Avatar,
		"updatedAt": u.UpdatedAt,
	}}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": u.Id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user/repo: failed updating user: %w", ErrDuplicate)
		}
		return fmt.Errorf("user/repo: failed updating user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetUsername(ctx context.Context, id primitive.ObjectID, username string) error {
	update := bson.M{"$set": bson.M{"username": username, "updatedAt": r.now().UTC()}}
	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("user/repo: failed updating username: %w", err)
	}
	return nil
}
