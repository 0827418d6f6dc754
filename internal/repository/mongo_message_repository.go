package repository

import (
	"context"
	"time"

	"github.com/portfolio/backend/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MessagesCollection is the collection holding contact messages.
const MessagesCollection = "messages"

// messageDocument maps to a document in the messages collection.
type messageDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Subject   string        `bson:"subject"`
	Message   string        `bson:"message"`
	CreatedAt time.Time     `bson:"createdAt"`
	Read      bool          `bson:"read"`
	Replied   bool          `bson:"replied"`
}

func (d *messageDocument) toModel() *model.Message {
	return &model.Message{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Subject:   d.Subject,
		Message:   d.Message,
		CreatedAt: d.CreatedAt,
		Read:      d.Read,
		Replied:   d.Replied,
	}
}

// MongoMessageRepository is the MongoDB implementation of MessageRepository.
type MongoMessageRepository struct {
	store *MongoStore
}

// NewMongoMessageRepository creates a MongoMessageRepository using the given store handle.
func NewMongoMessageRepository(store *MongoStore) *MongoMessageRepository {
	return &MongoMessageRepository{store: store}
}

var _ MessageRepository = (*MongoMessageRepository)(nil)

func (r *MongoMessageRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.store.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(MessagesCollection), nil
}

// EnsureIndexes creates the createdAt index used by List.
func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

// Drop removes the messages collection.
func (r *MongoMessageRepository) Drop(ctx context.Context) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	return coll.Drop(ctx)
}

// Save inserts msg and sets msg.ID to the hex form of the new ObjectID.
func (r *MongoMessageRepository) Save(ctx context.Context, msg *model.Message) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	doc := messageDocument{
		ID:        bson.NewObjectID(),
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
		Read:      msg.Read,
		Replied:   msg.Replied,
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	msg.ID = doc.ID.Hex()
	return nil
}

// List returns messages sorted by createdAt descending.
func (r *MongoMessageRepository) List(ctx context.Context, opts model.ListOptions) ([]*model.Message, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(opts.Skip())).
		SetLimit(int64(opts.Limit))

	cur, err := coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, err
	}
	var docs []messageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	messages := make([]*model.Message, 0, len(docs))
	for i := range docs {
		messages = append(messages, docs[i].toModel())
	}
	return messages, nil
}

// Count returns the number of documents in the collection.
func (r *MongoMessageRepository) Count(ctx context.Context) (int64, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.D{})
}

// Update applies $set with the supplied flags. Ids that are not valid
// ObjectIDs cannot match any document and report ErrNotFound.
func (r *MongoMessageRepository) Update(ctx context.Context, id string, upd model.MessageUpdate) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	filter := bson.D{{Key: "_id", Value: oid}}

	// $set rejects an empty document.
	if upd.IsEmpty() {
		n, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}

	set := bson.D{}
	if upd.Read != nil {
		set = append(set, bson.E{Key: "read", Value: *upd.Read})
	}
	if upd.Replied != nil {
		set = append(set, bson.E{Key: "replied", Value: *upd.Replied})
	}
	res, err := coll.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the document with the given id.
func (r *MongoMessageRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
