package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=interfaces.go -destination=mock_mongodb.go -package=mongodb

type ( // Interfaces
	ICollection interface {
		InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
		UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error)
		FindOne(context.Context, interface{}, ...*options.FindOneOptions) ISingleResult
		FindOneAndUpdate(context.Context, interface{}, interface{}, ...*options.FindOneAndUpdateOptions) ISingleResult
		Find(context.Context, interface{}, ...*options.FindOptions) (ICursor, error)
		CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
		DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	}

	ICursor interface {
		Close(context.Context) error
		All(context.Context, interface{}) error
	}

	ISingleResult interface {
		Decode(interface{}) error
	}
)

type ( // Structs
	Cursor struct{ cur *mongo.Cursor }

	Collection struct {
		Coll *mongo.Collection
	}

	SingleResult struct{ res *mongo.SingleResult }
)

func NewCollection(coll *mongo.Collection) *Collection {
	return &Collection{Coll: coll}
}

// SingleResult

func (sr *SingleResult) Decode(v interface{}) error {
	return sr.res.Decode(v)
}

// Cursor

func (cur *Cursor) Close(ctx context.Context) error {
	return cur.cur.Close(ctx)
}

func (cur *Cursor) All(ctx context.Context, results interface{}) error {
	return cur.cur.All(ctx, results)
}

// Collection

func (col *Collection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return col.Coll.InsertOne(ctx, document, opts...)
}

func (col *Collection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return col.Coll.UpdateOne(ctx, filter, update, opts...)
}

func (col *Collection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) ISingleResult {
	return &SingleResult{res: col.Coll.FindOne(ctx, filter, opts...)}
}

func (col *Collection) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) ISingleResult {
	return &SingleResult{res: col.Coll.FindOneAndUpdate(ctx, filter, update, opts...)}
}

func (col *Collection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (ICursor, error) {
	cursorResult, err := col.Coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &Cursor{cur: cursorResult}, nil
}

func (col *Collection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return col.Coll.CountDocuments(ctx, filter, opts...)
}

func (col *Collection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return col.Coll.DeleteOne(ctx, filter, opts...)
}
