package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"emaktab-snapshot/internal/account"
	repo "emaktab-snapshot/internal/account/repository"
)

// accountDocument is the BSON shape of an Account.
type accountDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Login     string             `bson:"login"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d accountDocument) toDomain() account.Account {
	return account.Account{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Login:     d.Login,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// CreateAccount inserts a new document. A taken login yields repo.ErrDuplicateKey.
func (r *implRepository) CreateAccount(ctx context.Context, opt repo.CreateAccountOptions) (account.Account, error) {
	now := r.now()
	doc := accountDocument{
		ID:        primitive.NewObjectID(),
		Name:      opt.Name,
		Login:     opt.Login,
		Password:  opt.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return account.Account{}, repo.ErrDuplicateKey
		}
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateAccount"), err)
		return account.Account{}, repo.ErrFailedToInsert
	}
	return doc.toDomain(), nil
}

// GetOneAccount returns the zero Account (ID == "") when nothing matches.
func (r *implRepository) GetOneAccount(ctx context.Context, opt repo.GetOneAccountOptions) (account.Account, error) {
	filter, err := r.buildGetOneFilter(opt)
	if err != nil {
		return account.Account{}, err
	}

	var doc accountDocument
	err = r.coll.FindOne(ctx, filter, getOneOptions()).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return account.Account{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneAccount"), err)
		return account.Account{}, repo.ErrFailedToGet
	}
	return doc.toDomain(), nil
}

// ListAccounts returns all accounts in the requested order.
func (r *implRepository) ListAccounts(ctx context.Context, opt repo.ListAccountsOptions) ([]account.Account, error) {
	findOpts := options.Find().SetSort(sortSpec(opt.OrderBy))

	cur, err := r.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListAccounts"), err)
		return nil, repo.ErrFailedToList
	}
	defer cur.Close(ctx)

	accounts := make([]account.Account, 0)
	for cur.Next(ctx) {
		var doc accountDocument
		if err := cur.Decode(&doc); err != nil {
			r.l.Errorf(ctx, "%s decode: %v", r.dsn("ListAccounts"), err)
			return nil, repo.ErrFailedToList
		}
		accounts = append(accounts, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		r.l.Errorf(ctx, "%s cursor: %v", r.dsn("ListAccounts"), err)
		return nil, repo.ErrFailedToList
	}
	return accounts, nil
}

// DeleteAccount removes at most one document and reports whether one was removed.
func (r *implRepository) DeleteAccount(ctx context.Context, opt repo.DeleteAccountOptions) (bool, error) {
	var filter bson.D
	switch {
	case opt.ID != "":
		oid, err := primitive.ObjectIDFromHex(opt.ID)
		if err != nil {
			// Not an ObjectID, so it cannot match any document.
			return false, nil
		}
		filter = bson.D{{Key: "_id", Value: oid}}
	case opt.Login != "":
		filter = bson.D{{Key: "login", Value: opt.Login}}
	default:
		return false, repo.ErrEmptyFilter
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteAccount"), err)
		return false, repo.ErrFailedToDelete
	}
	return res.DeletedCount > 0, nil
}
